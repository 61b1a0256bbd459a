// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/promptix/portal/internal/platform/constants"
	"github.com/promptix/portal/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the portal agent.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Directory and workspace tables (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Session provider backend (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Keys used by the provider to sign and verify access tokens
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// DeviceID scopes the provider session. One agent process is one device.
	DeviceID string `env:"DEVICE_ID" envDefault:"default"`

	// Session tuning
	ProfileResolveTimeout time.Duration `env:"PROFILE_RESOLVE_TIMEOUT" envDefault:"10s"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.ProfileResolveTimeout <= 0 {
		return nil, fmt.Errorf("config: PROFILE_RESOLVE_TIMEOUT must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the agent is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the agent is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins lists the origins the CORS middleware accepts outside
// development: the local dashboard plus EXTRA_ORIGINS (comma-separated).
func (c *Config) AllowedOrigins() []string {
	origins := []string{constants.DefaultLocalOrigin, constants.DefaultLocalOriginIP}
	return append(origins, query.StringSlice(c.ExtraOrigins)...)
}
