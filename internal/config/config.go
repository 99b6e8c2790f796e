// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Package config loads application settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"SHOP_DB_PATH" envDefault:"./data/shop.db"`
	JWTSecret  string `env:"SHOP_JWT_SECRET,required"`
	ServerHost string `env:"SHOP_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SHOP_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SHOP_ENV" envDefault:"development"`
	LogLevel   string `env:"SHOP_LOG_LEVEL" envDefault:"info"`
	StaticDir  string `env:"SHOP_STATIC_DIR" envDefault:"./static"`

	// Auth configuration
	TokenTTLHours  int      `env:"SHOP_TOKEN_TTL_HOURS" envDefault:"12"`
	GoogleClientID string   `env:"SHOP_GOOGLE_CLIENT_ID"`
	AdminEmails    []string `env:"SHOP_ADMIN_EMAILS"` // comma-separated list promoted to admin on sign-in
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// TokenTTL returns the access token lifetime as a duration.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// ImagesDir returns the directory product images are written to.
func (c Config) ImagesDir() string {
	return c.StaticDir + "/images"
}

// IsAdminEmail reports whether the address is on the configured admin list.
// Matching is case-insensitive.
func (c Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

// GoogleEnabled returns true if Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

// MinJWTSecretLength is the minimum required length for the signing secret.
// HS256 needs at least 32 bytes of key material.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("SHOP_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("SHOP_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("SHOP_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.TokenTTLHours <= 0 {
		return nil, fmt.Errorf("SHOP_TOKEN_TTL_HOURS must be positive, got %d", cfg.TokenTTLHours)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
