// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/storage"
)

/*
TestOpen_Drivers covers the driver factory for the backends that need no server.
*/
func TestOpen_Drivers(t *testing.T) {
	log := zerolog.Nop()

	t.Run("memory", func(t *testing.T) {
		store, err := storage.Open(context.Background(), &config.Config{StorageDriver: config.DriverMemory}, &log)
		require.NoError(t, err)
		assert.IsType(t, &storage.Memory{}, store)
	})

	t.Run("leveldb_sealed", func(t *testing.T) {
		cfg := &config.Config{
			StorageDriver:    config.DriverLevelDB,
			StoragePath:      t.TempDir(),
			StorageNamespace: "default",
			StorageSecret:    "operator-secret",
		}
		store, err := storage.Open(context.Background(), cfg, &log)
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &storage.Sealed{}, store)
		runStoreContract(t, store)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := storage.Open(context.Background(), &config.Config{StorageDriver: "floppy"}, &log)
		assert.Error(t, err)
	})
}

/*
TestPing treats local backends as always reachable, through the sealed wrapper too.
*/
func TestPing(t *testing.T) {
	assert.NoError(t, storage.Ping(context.Background(), storage.NewMemory()))

	sealed, err := storage.NewSealed(storage.NewMemory(), "operator-secret")
	require.NoError(t, err)
	assert.NoError(t, storage.Ping(context.Background(), sealed))
}
