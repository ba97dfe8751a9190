package openapi

import "os"

// Config holds OpenAPI metadata for document generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Acervo API"
	}
	if c.Description == "" {
		c.Description = "Academic catalog of products, news, teaching and extension material."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	for _, e := range []struct {
		name string
		dst  *string
	}{
		{env.Title, &c.Title},
		{env.Description, &c.Description},
	} {
		if e.name == "" {
			continue
		}
		if v := os.Getenv(e.name); v != "" {
			*e.dst = v
		}
	}
}
