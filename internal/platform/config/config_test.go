// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tripora/internal/platform/config"
)

/*
TestLoad_Defaults verifies the defaults applied when only the driver is set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRIPORA_STORAGE_DRIVER", config.DriverMemory)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "https://api.tripora.id", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, "common", cfg.MicrosoftTenant)
	assert.Equal(t, "default", cfg.StorageNamespace)
	assert.Equal(t, 4, cfg.StoragePoolSize)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.NotEmpty(t, cfg.StoragePath)
}

/*
TestLoad_Overrides verifies that TRIPORA_* variables are honored.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRIPORA_ENVIRONMENT", "production")
	t.Setenv("TRIPORA_API_BASE_URL", "http://localhost:9000")
	t.Setenv("TRIPORA_API_TIMEOUT", "3s")
	t.Setenv("TRIPORA_STORAGE_DRIVER", config.DriverRedis)
	t.Setenv("TRIPORA_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TRIPORA_GOOGLE_WEB_CLIENT_ID", "google-client")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://localhost:9000", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "google-client", cfg.GoogleWebClientID)
}

/*
TestValidate covers the driver-dependent requirements.
*/
func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			StorageDriver:   config.DriverMemory,
			StoragePoolSize: 1,
			StorageTimeout:  time.Second,
			APITimeout:      time.Second,
			APIRateLimit:    1,
			APIRateBurst:    1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"memory_ok", func(c *config.Config) {}, false},
		{"redis_missing_url", func(c *config.Config) { c.StorageDriver = config.DriverRedis }, true},
		{"postgres_missing_url", func(c *config.Config) { c.StorageDriver = config.DriverPostgres }, true},
		{"leveldb_missing_path", func(c *config.Config) { c.StorageDriver = config.DriverLevelDB }, true},
		{"unknown_driver", func(c *config.Config) { c.StorageDriver = "sqlite" }, true},
		{"zero_timeout", func(c *config.Config) { c.APITimeout = 0 }, true},
		{"zero_burst", func(c *config.Config) { c.APIRateBurst = 0 }, true},
		{"zero_pool", func(c *config.Config) { c.StoragePoolSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
