package ecfr

import (
	"fmt"
	"os"
	"time"
)

// Config holds registry client parameters. Metadata calls (agency lists,
// version histories) use the short timeout; full-title document fetches
// use the long one.
type Config struct {
	BaseURL         string `toml:"base_url"`
	MetadataTimeout string `toml:"metadata_timeout"`
	DocumentTimeout string `toml:"document_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL         string
	MetadataTimeout string
	DocumentTimeout string
}

// MetadataTimeoutDuration returns MetadataTimeout as a time.Duration.
func (c *Config) MetadataTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.MetadataTimeout)
	return d
}

// DocumentTimeoutDuration returns DocumentTimeout as a time.Duration.
func (c *Config) DocumentTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DocumentTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.MetadataTimeout != "" {
		c.MetadataTimeout = overlay.MetadataTimeout
	}
	if overlay.DocumentTimeout != "" {
		c.DocumentTimeout = overlay.DocumentTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.ecfr.gov/api"
	}
	if c.MetadataTimeout == "" {
		c.MetadataTimeout = "30s"
	}
	if c.DocumentTimeout == "" {
		c.DocumentTimeout = "5m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.MetadataTimeout != "" {
		if v := os.Getenv(env.MetadataTimeout); v != "" {
			c.MetadataTimeout = v
		}
	}
	if env.DocumentTimeout != "" {
		if v := os.Getenv(env.DocumentTimeout); v != "" {
			c.DocumentTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := time.ParseDuration(c.MetadataTimeout); err != nil {
		return fmt.Errorf("invalid metadata_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.DocumentTimeout); err != nil {
		return fmt.Errorf("invalid document_timeout: %w", err)
	}
	return nil
}
