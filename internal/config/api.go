package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/acervo/pkg/formatting"
	"github.com/JaimeStill/acervo/pkg/middleware"
	"github.com/JaimeStill/acervo/pkg/openapi"
	"github.com/JaimeStill/acervo/pkg/pagination"
)

const (
	EnvAPIBasePath      = "ACERVO_API_BASE_PATH"
	EnvAPIMaxUploadSize = "ACERVO_API_MAX_UPLOAD_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ACERVO_CORS_ENABLED",
	Origins:          "ACERVO_CORS_ORIGINS",
	AllowedMethods:   "ACERVO_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ACERVO_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "ACERVO_CORS_EXPOSED_HEADERS",
	AllowCredentials: "ACERVO_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ACERVO_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "ACERVO_OPENAPI_TITLE",
	Description: "ACERVO_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultLimit: "ACERVO_PAGINATION_DEFAULT_LIMIT",
	MaxLimit:     "ACERVO_PAGINATION_MAX_LIMIT",
}

// APIConfig holds API routing, upload limit, list window, OpenAPI, and CORS settings.
// MaxUploadSize bounds each attached file individually.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
	CORS          middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
