// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles client-wide settings and environment parsing.

It leverages 'caarlos0/env' to map TRIPORA_* environment variables into a
strongly-typed Go struct, after 'joho/godotenv' has loaded an optional .env
file into the process environment.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the remote client, storage and providers via constructors.
  - Zero Hidden State: No global variables are used to store config.

The API host and OAuth client identifiers live here rather than in source.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Storage Drivers

const (
	DriverLevelDB  = "leveldb"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the Tripora client core.
type Config struct {

	// Runtime settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`

	// Remote REST API
	APIBaseURL   string        `env:"API_BASE_URL"   envDefault:"https://api.tripora.id"`
	APITimeout   time.Duration `env:"API_TIMEOUT"    envDefault:"15s"`
	APIRateLimit float64       `env:"API_RATE_LIMIT" envDefault:"5"`
	APIRateBurst int           `env:"API_RATE_BURST" envDefault:"10"`

	// Persisted key-value storage
	StorageDriver    string `env:"STORAGE_DRIVER"    envDefault:"leveldb"`
	StoragePath      string `env:"STORAGE_PATH"`
	StorageNamespace string `env:"STORAGE_NAMESPACE" envDefault:"default"`
	StorageSecret    string `env:"STORAGE_SECRET"`

	// Shared storage servers (redis and postgres drivers)
	StoragePoolSize int           `env:"STORAGE_POOL_SIZE" envDefault:"4"`
	StorageTimeout  time.Duration `env:"STORAGE_TIMEOUT"   envDefault:"5s"`

	// Key-Value server (redis driver)
	RedisURL string `env:"REDIS_URL"`

	// Relational Database (postgres driver)
	DatabaseURL string `env:"DATABASE_URL"`

	// OAuth client identifiers
	GoogleWebClientID   string `env:"GOOGLE_WEB_CLIENT_ID"`
	GoogleClientSecret  string `env:"GOOGLE_CLIENT_SECRET"`
	MicrosoftClientID   string `env:"MICROSOFT_CLIENT_ID"`
	MicrosoftTenant     string `env:"MICROSOFT_TENANT" envDefault:"common"`
	FacebookAppID       string `env:"FACEBOOK_APP_ID"`
	FacebookClientToken string `env:"FACEBOOK_CLIENT_TOKEN"`
}

// # Configuration Loading

// Load reads an optional .env file and parses TRIPORA_* environment variables
// into a validated [Config].
func Load() (*Config, error) {

	// A missing .env is normal outside development; anything else is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env file: %w", err)
	}

	cfg := &Config{}

	// Map environment variables to struct fields.
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "TRIPORA_"}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the driver-dependent requirements that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverLevelDB:
		if c.StoragePath == "" {
			return errors.New("config: TRIPORA_STORAGE_PATH is required for the leveldb driver")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return errors.New("config: TRIPORA_REDIS_URL is required for the redis driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: TRIPORA_DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}

	if c.APITimeout <= 0 {
		return errors.New("config: TRIPORA_API_TIMEOUT must be positive")
	}

	if c.StoragePoolSize <= 0 || c.StorageTimeout <= 0 {
		return errors.New("config: TRIPORA_STORAGE_POOL_SIZE and TRIPORA_STORAGE_TIMEOUT must be positive")
	}

	if c.APIRateLimit <= 0 || c.APIRateBurst <= 0 {
		return errors.New("config: TRIPORA_API_RATE_LIMIT and TRIPORA_API_RATE_BURST must be positive")
	}

	return nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the client is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// defaultStoragePath places the device-local store under the user's config directory.
func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".tripora", "store")
	}
	return filepath.Join(dir, "tripora", "store")
}
