package deregulation

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ModelConfig holds the analysis model connection parameters. An empty
// APIKey leaves the model path unconfigured; classification requests
// then fail with ErrNotConfigured instead of calling out.
type ModelConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Timeout   string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey    string
	Model     string
	MaxTokens string
	Timeout   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ModelConfig) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ModelConfig) Merge(overlay *ModelConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

// TimeoutDuration returns the parsed request timeout.
func (c *ModelConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Configured reports whether the model path can be used.
func (c *ModelConfig) Configured() bool {
	return c.APIKey != ""
}

func (c *ModelConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 500
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *ModelConfig) loadEnv(env *Env) {
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *ModelConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	return nil
}
