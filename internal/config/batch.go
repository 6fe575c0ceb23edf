package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvBatchConcurrency = "PROCTOR_BATCH_CONCURRENCY"
	EnvBatchLimit       = "PROCTOR_BATCH_LIMIT"
)

// BatchConfig holds batch classification run parameters. Limit zero
// means no cap on the number of agencies per run.
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
	Limit       int `toml:"limit"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *BatchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *BatchConfig) Merge(overlay *BatchConfig) {
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.Limit != 0 {
		c.Limit = overlay.Limit
	}
}

func (c *BatchConfig) loadDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 10
	}
}

func (c *BatchConfig) loadEnv() {
	if v := os.Getenv(EnvBatchConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv(EnvBatchLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limit = n
		}
	}
}

func (c *BatchConfig) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}
