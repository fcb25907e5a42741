// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config reads the admin's settings from the environment with
caarlos0/env. [Load] is called once by the composition root and the
resulting [Config] is passed down through constructors.

	cfg, err := config.Load()
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds the runtime settings of the admin server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Session Store (Redis). Failures degrade to in-memory slots.
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Cryptographic keys for identity signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`

	// Cross-Origin Resource Sharing, comma separated.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// SecureCookies marks the profile cookie Secure outside production.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`

	// Session handling
	SessionCacheSize int           `env:"SESSION_CACHE_SIZE" envDefault:"4096"`
	SessionTTL       time.Duration `env:"SESSION_TTL"        envDefault:"12h"`

	// SimulateUpdates routes credential forms to a delayed stand-in instead of
	// the account service.
	SimulateUpdates bool `env:"SIMULATE_UPDATES" envDefault:"false"`

	// Screen timing
	SimulatedDelay time.Duration `env:"SIMULATED_DELAY" envDefault:"1s"`
	CloseDelay     time.Duration `env:"CLOSE_DELAY"     envDefault:"1500ms"`
	ToastDuration  time.Duration `env:"TOAST_DURATION"  envDefault:"3s"`

	// PasswordStrictComposition requires an uppercase letter, a digit and a
	// special character in new passwords, for every form variant.
	PasswordStrictComposition bool `env:"PASSWORD_STRICT_COMPOSITION" envDefault:"false"`
}

// # Configuration Loading

// Load parses the environment into a [Config] and checks the values env tags
// cannot express.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config_parse_failed: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("config_invalid: SESSION_CACHE_SIZE must be positive, got %d", c.SessionCacheSize)
	}

	for name, value := range map[string]time.Duration{
		"SESSION_TTL":     c.SessionTTL,
		"SIMULATED_DELAY": c.SimulatedDelay,
		"CLOSE_DELAY":     c.CloseDelay,
		"TOAST_DURATION":  c.ToastDuration,
	} {
		if value < 0 {
			return fmt.Errorf("config_invalid: %s must not be negative, got %s", name, value)
		}
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CookiesSecure reports whether the profile cookie gets the Secure flag.
// Production always sets it.
func (c *Config) CookiesSecure() bool {
	return c.SecureCookies || c.IsProduction()
}

// Origins splits [Config.AllowedOrigins] into a trimmed list.
func (c *Config) Origins() []string {
	var origins []string
	for origin := range strings.SplitSeq(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
