package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/proctor/internal/deregulation"
	"github.com/JaimeStill/proctor/internal/ecfr"
	"github.com/JaimeStill/proctor/pkg/database"
	"github.com/JaimeStill/proctor/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvProctorEnv             = "PROCTOR_ENV"
	EnvProctorShutdownTimeout = "PROCTOR_SHUTDOWN_TIMEOUT"
	EnvProctorVersion         = "PROCTOR_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "PROCTOR_DB_HOST",
	Port:            "PROCTOR_DB_PORT",
	Name:            "PROCTOR_DB_NAME",
	User:            "PROCTOR_DB_USER",
	Password:        "PROCTOR_DB_PASSWORD",
	SSLMode:         "PROCTOR_DB_SSL_MODE",
	MaxOpenConns:    "PROCTOR_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PROCTOR_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PROCTOR_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PROCTOR_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "PROCTOR_STORAGE_CONTAINER_NAME",
	ConnectionString: "PROCTOR_STORAGE_CONNECTION_STRING",
}

var ecfrEnv = &ecfr.Env{
	BaseURL:         "PROCTOR_ECFR_BASE_URL",
	MetadataTimeout: "PROCTOR_ECFR_METADATA_TIMEOUT",
	DocumentTimeout: "PROCTOR_ECFR_DOCUMENT_TIMEOUT",
}

var modelEnv = &deregulation.Env{
	APIKey:    "PROCTOR_MODEL_API_KEY",
	Model:     "PROCTOR_MODEL_NAME",
	MaxTokens: "PROCTOR_MODEL_MAX_TOKENS",
	Timeout:   "PROCTOR_MODEL_TIMEOUT",
}

// Config is the root configuration for the Proctor service.
type Config struct {
	Server          ServerConfig             `toml:"server"`
	Database        database.Config          `toml:"database"`
	Storage         storage.Config           `toml:"storage"`
	API             APIConfig                `toml:"api"`
	ECFR            ecfr.Config              `toml:"ecfr"`
	Model           deregulation.ModelConfig `toml:"model"`
	Batch           BatchConfig              `toml:"batch"`
	ShutdownTimeout string                   `toml:"shutdown_timeout"`
	Version         string                   `toml:"version"`
}

// Env returns the PROCTOR_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvProctorEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.ECFR.Merge(&overlay.ECFR)
	c.Model.Merge(&overlay.Model)
	c.Batch.Merge(&overlay.Batch)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.ECFR.Finalize(ecfrEnv); err != nil {
		return fmt.Errorf("ecfr: %w", err)
	}
	if err := c.Model.Finalize(modelEnv); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Batch.Finalize(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	// Storage is optional: without a connection string the service runs
	// with XML archival disabled.
	if v := os.Getenv(storageEnv.ConnectionString); v != "" {
		c.Storage.ConnectionString = v
	}
	if c.Storage.ConnectionString != "" {
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}

	return nil
}

// ArchiveEnabled reports whether blob archival is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Storage.ConnectionString != ""
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvProctorShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvProctorVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvProctorEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
