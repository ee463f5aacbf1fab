// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage implements the persisted key-value store behind the session
and settings services.

The vocabulary is tiny (userToken, userInfo, user-language, user-country) and
string-valued, so every backend exposes the same [Store] contract:

  - Get reports absence with ok=false, never with an error.
  - MultiSet and MultiRemove are all-or-nothing, which is what lets the
    session keep its token and user persisted as a pair.
  - A write that returned nil is durable: the next process observes it.

Backends:

  - leveldb: the device-local default (synced writes).
  - redis: shared store for several client processes.
  - postgres: shared store with schema managed by embedded migrations.
  - memory: tests and throwaway runs.

[Sealed] wraps any of them to encrypt values at rest.
*/
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/platform/logger"
	platformpg "github.com/taibuivan/tripora/internal/platform/postgres"
	platformredis "github.com/taibuivan/tripora/internal/platform/redis"
)

// Store is a string-keyed, string-valued persisted map.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes a single value.
	Set(ctx context.Context, key, value string) error
	// MultiSet writes all entries atomically.
	MultiSet(ctx context.Context, entries map[string]string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// MultiRemove deletes all keys atomically.
	MultiRemove(ctx context.Context, keys ...string) error
	// Close releases the backend.
	Close() error
}

// Pinger is implemented by backends that talk to a server.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks that store's backend is reachable. Local backends always are.
func Ping(ctx context.Context, store Store) error {
	if pinger, ok := store.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Open builds the backend selected by cfg.StorageDriver, sealed when a
// storage secret is configured.
func Open(ctx context.Context, cfg *config.Config, base *zerolog.Logger) (Store, error) {
	log := logger.Component(base, "storage").With().Str("driver", cfg.StorageDriver).Logger()

	var (
		store Store
		err   error
	)

	switch cfg.StorageDriver {
	case config.DriverLevelDB:
		store, err = OpenLevelDB(cfg.StoragePath, cfg.StorageNamespace, log)

	case config.DriverRedis:
		client, clientErr := platformredis.NewClient(ctx, cfg.RedisURL, platformredis.Options{
			PoolSize: cfg.StoragePoolSize,
			Timeout:  cfg.StorageTimeout,
		}, log)
		if clientErr != nil {
			return nil, clientErr
		}
		store = NewRedis(client, cfg.StorageNamespace, log)

	case config.DriverPostgres:
		if err := MigratePostgres(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
		pool, poolErr := platformpg.NewPool(ctx, cfg.DatabaseURL, platformpg.Options{
			MaxConns:         int32(cfg.StoragePoolSize),
			StatementTimeout: cfg.StorageTimeout,
		}, log)
		if poolErr != nil {
			return nil, poolErr
		}
		store = NewPostgres(pool, cfg.StorageNamespace, log)

	case config.DriverMemory:
		store = NewMemory()

	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}

	if err != nil {
		return nil, err
	}

	if cfg.StorageSecret == "" {
		return store, nil
	}

	sealed, err := NewSealed(store, cfg.StorageSecret)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	log.Info().Msg("storage values sealed at rest")
	return sealed, nil
}
