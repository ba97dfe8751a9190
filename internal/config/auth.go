package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvAuthSecret        = "ACERVO_AUTH_SECRET"
	EnvAuthTokenExpiry   = "ACERVO_AUTH_TOKEN_EXPIRY"
	EnvAuthIssuer        = "ACERVO_AUTH_ISSUER"
	EnvAuthAdminUsername = "ACERVO_AUTH_ADMIN_USERNAME"
	EnvAuthAdminPassword = "ACERVO_AUTH_ADMIN_PASSWORD"
)

// minSecretLength is the HS256 key size in bytes.
const minSecretLength = 32

// AuthConfig holds bearer-token signing parameters and the optional
// administrator account seeded at startup.
type AuthConfig struct {
	Secret        string `toml:"secret"`
	TokenExpiry   string `toml:"token_expiry"`
	Issuer        string `toml:"issuer"`
	AdminUsername string `toml:"admin_username"`
	AdminPassword string `toml:"admin_password"`
}

// TokenExpiryDuration returns TokenExpiry as a time.Duration.
func (c *AuthConfig) TokenExpiryDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenExpiry)
	return d
}

// SeedAdmin reports whether an administrator account should be ensured at startup.
func (c *AuthConfig) SeedAdmin() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.TokenExpiry != "" {
		c.TokenExpiry = overlay.TokenExpiry
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.AdminUsername != "" {
		c.AdminUsername = overlay.AdminUsername
	}
	if overlay.AdminPassword != "" {
		c.AdminPassword = overlay.AdminPassword
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.TokenExpiry == "" {
		c.TokenExpiry = "8h"
	}
	if c.Issuer == "" {
		c.Issuer = "acervo"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthSecret); v != "" {
		c.Secret = v
	}
	if v := os.Getenv(EnvAuthTokenExpiry); v != "" {
		c.TokenExpiry = v
	}
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthAdminUsername); v != "" {
		c.AdminUsername = v
	}
	if v := os.Getenv(EnvAuthAdminPassword); v != "" {
		c.AdminPassword = v
	}
}

func (c *AuthConfig) validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("secret must be at least %d bytes", minSecretLength)
	}
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return fmt.Errorf("invalid token_expiry: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("token_expiry must be positive")
	}
	return nil
}
