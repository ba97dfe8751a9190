package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	EnvDOIBaseURL   = "ACERVO_DOI_BASE_URL"
	EnvDOITimeout   = "ACERVO_DOI_TIMEOUT"
	EnvDOIMailto    = "ACERVO_DOI_MAILTO"
	EnvDOICacheSize = "ACERVO_DOI_CACHE_SIZE"
	EnvDOICacheTTL  = "ACERVO_DOI_CACHE_TTL"
)

// DOIConfig holds the DOI registry endpoint, request bound, and lookup cache settings.
// Mailto, when set, identifies the service to the registry's polite pool.
type DOIConfig struct {
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`
	Mailto    string `toml:"mailto"`
	CacheSize int    `toml:"cache_size"`
	CacheTTL  string `toml:"cache_ttl"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *DOIConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *DOIConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DOIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DOIConfig) Merge(overlay *DOIConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Mailto != "" {
		c.Mailto = overlay.Mailto
	}
	if overlay.CacheSize != 0 {
		c.CacheSize = overlay.CacheSize
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
}

func (c *DOIConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.crossref.org"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.CacheSize == 0 {
		c.CacheSize = 256
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "1h"
	}
}

func (c *DOIConfig) loadEnv() {
	if v := os.Getenv(EnvDOIBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvDOITimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvDOIMailto); v != "" {
		c.Mailto = v
	}
	if v := os.Getenv(EnvDOICacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}
	if v := os.Getenv(EnvDOICacheTTL); v != "" {
		c.CacheTTL = v
	}
}

func (c *DOIConfig) validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative")
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	return nil
}
