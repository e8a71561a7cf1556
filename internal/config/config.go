// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the folio configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"your-super-secret-key-that-is-long-and-random",
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Supported database drivers.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, cgo
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	DBDriver   string `env:"FOLIO_DB_DRIVER" envDefault:"sqlite"`
	ServerHost string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"FOLIO_SERVER_PORT" envDefault:"8000"`
	Env        string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel   string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"FOLIO_LOG_FORMAT" envDefault:"text"`
	UploadsDir string `env:"FOLIO_UPLOADS_DIR" envDefault:"./uploads"`

	// Session token
	JWTSecret  string        `env:"FOLIO_JWT_SECRET,required"`
	SessionTTL time.Duration `env:"FOLIO_SESSION_TTL" envDefault:"8h"`

	// Single admin identity. Exactly one of the password fields must be set.
	AdminUsername     string `env:"FOLIO_ADMIN_USERNAME,required"`
	AdminPassword     string `env:"FOLIO_ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"FOLIO_ADMIN_PASSWORD_HASH"` // argon2id, see `folio hash-password`

	CORSOrigins []string `env:"FOLIO_CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Uploads
	UploadMaxFiles int   `env:"FOLIO_UPLOAD_MAX_FILES" envDefault:"10"`
	UploadMaxBytes int64 `env:"FOLIO_UPLOAD_MAX_BYTES" envDefault:"104857600"`
	ThumbnailWidth int   `env:"FOLIO_THUMBNAIL_WIDTH" envDefault:"480"` // 0 disables thumbnails

	// Contact form submissions per minute per IP, 0 disables the limit
	MessageRateLimit int `env:"FOLIO_MESSAGE_RATE_LIMIT" envDefault:"5"`

	// Orphaned upload sweeping; an empty schedule keeps every uploaded file forever
	SweepSchedule string        `env:"FOLIO_SWEEP_SCHEDULE"`
	SweepGrace    time.Duration `env:"FOLIO_SWEEP_GRACE" envDefault:"24h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SweepEnabled returns true if orphaned uploads are swept on a schedule.
func (c Config) SweepEnabled() bool {
	return c.SweepSchedule != ""
}

// TrustedOriginHosts returns the host[:port] part of every CORS origin.
// The CSRF middleware expects host-only values.
func (c Config) TrustedOriginHosts() []string {
	hosts := make([]string, 0, len(c.CORSOrigins))
	for _, origin := range c.CORSOrigins {
		u, err := url.Parse(strings.TrimSpace(origin))
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

// MinJWTSecretLength is the minimum required length for the token signing secret.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("FOLIO_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return errors.New("FOLIO_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.JWTSecret) {
		slog.Warn("FOLIO_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch {
	case c.AdminPassword == "" && c.AdminPasswordHash == "":
		return errors.New("one of FOLIO_ADMIN_PASSWORD or FOLIO_ADMIN_PASSWORD_HASH is required")
	case c.AdminPassword != "" && c.AdminPasswordHash != "":
		return errors.New("FOLIO_ADMIN_PASSWORD and FOLIO_ADMIN_PASSWORD_HASH are mutually exclusive")
	}

	if c.DBDriver != DriverModernc && c.DBDriver != DriverMattn {
		return fmt.Errorf("FOLIO_DB_DRIVER must be %q or %q, got %q", DriverModernc, DriverMattn, c.DBDriver)
	}

	if c.SessionTTL <= 0 {
		return errors.New("FOLIO_SESSION_TTL must be positive")
	}

	if c.UploadMaxFiles <= 0 {
		return errors.New("FOLIO_UPLOAD_MAX_FILES must be positive")
	}

	return nil
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
