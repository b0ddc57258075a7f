// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinSessionSecretLength is the minimum required length for the session
// secret. AES-256 requires 32 bytes minimum.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"SITEWORK_DB_PATH" envDefault:"./data/sitework.db"`
	SessionSecret string `env:"SITEWORK_SESSION_SECRET,required"`
	ServerHost    string `env:"SITEWORK_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SITEWORK_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SITEWORK_ENV" envDefault:"development"`
	LogLevel      string `env:"SITEWORK_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"SITEWORK_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL    string `env:"SITEWORK_REDIS_URL"`                      // Optional Redis URL for the counts cache
	CachePrefix string `env:"SITEWORK_CACHE_PREFIX" envDefault:"sw:"`  // Redis key prefix
	CacheTTL    int    `env:"SITEWORK_CACHE_TTL" envDefault:"60"`      // Cache TTL in seconds

	// Event log retention, days. Older audit events are purged by the scheduler.
	EventRetentionDays int `env:"SITEWORK_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Admin bootstrap. When both are set and no account exists with the
	// email, a seed admin account is created at startup.
	AdminEmail    string `env:"SITEWORK_ADMIN_EMAIL"`
	AdminPassword string `env:"SITEWORK_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SeedAdmin returns true if an admin bootstrap account is configured.
func (c Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SITEWORK_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SITEWORK_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	return cfg, nil
}
