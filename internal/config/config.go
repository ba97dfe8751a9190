// Package config loads the Acervo service configuration from TOML files,
// environment overlays, and ACERVO_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/acervo/pkg/database"
	"github.com/JaimeStill/acervo/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAcervoEnv             = "ACERVO_ENV"
	EnvAcervoShutdownTimeout = "ACERVO_SHUTDOWN_TIMEOUT"
	EnvAcervoVersion         = "ACERVO_VERSION"
	EnvAcervoAutoMigrate     = "ACERVO_AUTO_MIGRATE"
)

var databaseEnv = &database.Env{
	Host:            "ACERVO_DB_HOST",
	Port:            "ACERVO_DB_PORT",
	Name:            "ACERVO_DB_NAME",
	User:            "ACERVO_DB_USER",
	Password:        "ACERVO_DB_PASSWORD",
	SSLMode:         "ACERVO_DB_SSL_MODE",
	ApplicationName: "ACERVO_DB_APPLICATION_NAME",
	MaxOpenConns:    "ACERVO_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ACERVO_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ACERVO_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ACERVO_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "ACERVO_STORAGE_PROVIDER",
	Root:             "ACERVO_STORAGE_ROOT",
	ContainerName:    "ACERVO_STORAGE_CONTAINER_NAME",
	ConnectionString: "ACERVO_STORAGE_CONNECTION_STRING",
	Bucket:           "ACERVO_STORAGE_S3_BUCKET",
	Region:           "ACERVO_STORAGE_S3_REGION",
	Endpoint:         "ACERVO_STORAGE_S3_ENDPOINT",
	AccessKeyID:      "ACERVO_STORAGE_S3_ACCESS_KEY_ID",
	SecretAccessKey:  "ACERVO_STORAGE_S3_SECRET_ACCESS_KEY",
	UsePathStyle:     "ACERVO_STORAGE_S3_USE_PATH_STYLE",
}

// Config is the root configuration for the Acervo service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Auth            AuthConfig      `toml:"auth"`
	DOI             DOIConfig       `toml:"doi"`
	AutoMigrate     bool            `toml:"auto_migrate"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the ACERVO_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAcervoEnv); env != "" {
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

	if err := cfg.Finalize(); err != nil {
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
	if overlay.AutoMigrate {
		c.AutoMigrate = true
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.DOI.Merge(&overlay.DOI)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every sub-config.
func (c *Config) Finalize() error {
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
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.DOI.Finalize(); err != nil {
		return fmt.Errorf("doi: %w", err)
	}
	return nil
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
	if v := os.Getenv(EnvAcervoShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvAcervoVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvAcervoAutoMigrate); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoMigrate = b
		}
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
	if env := os.Getenv(EnvAcervoEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
