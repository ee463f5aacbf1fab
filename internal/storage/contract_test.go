// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/storage"
)

// runStoreContract exercises the behavior every backend must share.
func runStoreContract(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent_key", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("set_get_overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, constants.StorageKeyCountry, "Indonesia"))
		require.NoError(t, store.Set(ctx, constants.StorageKeyCountry, "Malaysia"))

		value, ok, err := store.Get(ctx, constants.StorageKeyCountry)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Malaysia", value)
	})

	t.Run("multi_set_pair", func(t *testing.T) {
		require.NoError(t, store.MultiSet(ctx, map[string]string{
			constants.StorageKeyToken: "abc",
			constants.StorageKeyUser:  `{"id":1}`,
		}))

		token, ok, err := store.Get(ctx, constants.StorageKeyToken)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", token)

		user, ok, err := store.Get(ctx, constants.StorageKeyUser)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"id":1}`, user)
	})

	t.Run("multi_remove_pair", func(t *testing.T) {
		require.NoError(t, store.MultiRemove(ctx, constants.StorageKeyToken, constants.StorageKeyUser))

		_, ok, err := store.Get(ctx, constants.StorageKeyToken)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = store.Get(ctx, constants.StorageKeyUser)
		require.NoError(t, err)
		assert.False(t, ok)

		// Country untouched.
		_, ok, err = store.Get(ctx, constants.StorageKeyCountry)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("remove_absent_is_noop", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, "never-written"))
		assert.NoError(t, store.MultiRemove(ctx))
	})

	t.Run("remove_single", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, constants.StorageKeyCountry))
		_, ok, err := store.Get(ctx, constants.StorageKeyCountry)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
