// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/storage"
)

/*
TestSealed_Contract runs the shared Store behavior through the sealing wrapper.
*/
func TestSealed_Contract(t *testing.T) {
	sealed, err := storage.NewSealed(storage.NewMemory(), "operator-secret")
	require.NoError(t, err)

	runStoreContract(t, sealed)
}

/*
TestSealed_CiphertextAtRest checks that the inner store never sees plaintext.
*/
func TestSealed_CiphertextAtRest(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemory()

	sealed, err := storage.NewSealed(inner, "operator-secret")
	require.NoError(t, err)
	require.NoError(t, sealed.Set(ctx, "userToken", "abc"))

	raw := inner.Snapshot()["userToken"]
	assert.NotEmpty(t, raw)
	assert.NotContains(t, raw, "abc")
}

/*
TestSealed_WrongSecret reports an internal error instead of garbage.
*/
func TestSealed_WrongSecret(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemory()

	writer, err := storage.NewSealed(inner, "secret-one")
	require.NoError(t, err)
	require.NoError(t, writer.Set(ctx, "userToken", "abc"))

	reader, err := storage.NewSealed(inner, "secret-two")
	require.NoError(t, err)

	_, _, err = reader.Get(ctx, "userToken")
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))

	// Plain values written before sealing was enabled are rejected the same way.
	require.NoError(t, inner.Set(ctx, "user-country", "Indonesia"))
	_, _, err = reader.Get(ctx, "user-country")
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

/*
TestNewSealed_EmptySecret refuses to derive a key from nothing.
*/
func TestNewSealed_EmptySecret(t *testing.T) {
	_, err := storage.NewSealed(storage.NewMemory(), "")
	assert.Error(t, err)
}
