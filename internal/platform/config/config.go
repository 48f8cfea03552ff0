// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Session) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Session transport modes. Chosen once at process start and never re-evaluated
// per request — the two modes carry different trust guarantees.
const (
	// SessionModeCookie is the server-trusted strategy: the signed session
	// token travels in an HttpOnly cookie and is verified on every read.
	SessionModeCookie = "cookie"

	// SessionModeLocal hands the session payload to caller-owned persistence
	// and never verifies it. Advisory only; must not face untrusted clients.
	SessionModeLocal = "local"
)

// # Configuration Schema

// Config holds all runtime configuration for the Bisik API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSigningKey is the HMAC secret for session tokens. It must never
	// be empty or defaulted; an unsigned session is not a session.
	SessionSigningKey string `env:"SESSION_SIGNING_KEY,required,notEmpty"`

	// SessionMode selects the session transport strategy at startup.
	// One of [SessionModeCookie] (default) or [SessionModeLocal].
	SessionMode string `env:"SESSION_MODE" envDefault:"cookie"`

	// SessionStatePath is where the local-fallback transport persists its
	// payload. Only consulted when SessionMode is [SessionModeLocal].
	SessionStatePath string `env:"SESSION_STATE_PATH" envDefault:"./data/session.json"`

	// ExtraOrigins is a comma-separated list of additional origins allowed
	// by CORS in production (e.g. a staging frontend).
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Reject unknown transport modes up front rather than at first request.
	if cfg.SessionMode != SessionModeCookie && cfg.SessionMode != SessionModeLocal {
		return nil, fmt.Errorf("config: invalid SESSION_MODE %q (want %q or %q)",
			cfg.SessionMode, SessionModeCookie, SessionModeLocal)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedExtraOrigins returns the parsed EXTRA_ORIGINS list.
func (c *Config) AllowedExtraOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
