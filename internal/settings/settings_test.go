// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/settings"
	"github.com/taibuivan/tripora/internal/storage"
)

// faultyStore fails reads or writes on demand.
type faultyStore struct {
	*storage.Memory
	failGet bool
	failSet bool
}

var errDisk = errors.New("disk unavailable")

func (f *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, apperr.Internal(errDisk)
	}
	return f.Memory.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return apperr.Internal(errDisk)
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *faultyStore) MultiSet(ctx context.Context, entries map[string]string) error {
	if f.failSet {
		return apperr.Internal(errDisk)
	}
	return f.Memory.MultiSet(ctx, entries)
}

func newResolver(t *testing.T) (*settings.Resolver, *faultyStore) {
	t.Helper()
	store := &faultyStore{Memory: storage.NewMemory()}
	resolver := settings.NewResolver(store, nil)
	resolver.Initialize(context.Background())
	return resolver, store
}

/*
TestInitialize_FirstRun adopts and persists the defaults.
*/
func TestInitialize_FirstRun(t *testing.T) {
	resolver, store := newResolver(t)

	assert.Equal(t, settings.Settings{Country: "Indonesia", Currency: "IDR", Language: "ID"}, resolver.Current())

	persisted := store.Snapshot()
	assert.Equal(t, "Indonesia", persisted[constants.StorageKeyCountry])
	assert.Equal(t, "ID", persisted[constants.StorageKeyLanguage])
	assert.NotContains(t, persisted, "user-currency")
}

/*
TestInitialize_Restores adopts persisted values and derives the currency.
*/
func TestInitialize_Restores(t *testing.T) {
	store := &faultyStore{Memory: storage.NewMemory()}
	require.NoError(t, store.MultiSet(context.Background(), map[string]string{
		constants.StorageKeyCountry:  "Singapore",
		constants.StorageKeyLanguage: "ID",
	}))

	resolved := settings.NewResolver(store, nil).Initialize(context.Background())
	assert.Equal(t, settings.Settings{Country: "Singapore", Currency: "IDR", Language: "ID"}, resolved)
}

/*
TestInitialize_UnsupportedCountry treats an unknown persisted country as absent.
*/
func TestInitialize_UnsupportedCountry(t *testing.T) {
	store := &faultyStore{Memory: storage.NewMemory()}
	require.NoError(t, store.MultiSet(context.Background(), map[string]string{
		constants.StorageKeyCountry:  "Narnia",
		constants.StorageKeyLanguage: "EN",
	}))

	resolved := settings.NewResolver(store, nil).Initialize(context.Background())
	assert.Equal(t, "Indonesia", resolved.Country)
	assert.Equal(t, "ID", resolved.Language)
	assert.Equal(t, "Indonesia", store.Snapshot()[constants.StorageKeyCountry])
}

/*
TestInitialize_MissingLanguage repairs the language from the country table.
*/
func TestInitialize_MissingLanguage(t *testing.T) {
	store := &faultyStore{Memory: storage.NewMemory()}
	require.NoError(t, store.Set(context.Background(), constants.StorageKeyCountry, "Malaysia"))

	resolved := settings.NewResolver(store, nil).Initialize(context.Background())
	assert.Equal(t, "EN", resolved.Language)
	assert.Equal(t, "EN", store.Snapshot()[constants.StorageKeyLanguage])
}

/*
TestInitialize_ReadError fails open without overwriting storage.
*/
func TestInitialize_ReadError(t *testing.T) {
	store := &faultyStore{Memory: storage.NewMemory(), failGet: true}
	require.NoError(t, store.Memory.Set(context.Background(), constants.StorageKeyCountry, "Malaysia"))

	resolved := settings.NewResolver(store, nil).Initialize(context.Background())
	assert.Equal(t, "Indonesia", resolved.Country)
	assert.Equal(t, "Malaysia", store.Snapshot()[constants.StorageKeyCountry])
}

/*
TestUpdateCountry_Cascade covers the table-driven cascade and persistence.
*/
func TestUpdateCountry_Cascade(t *testing.T) {
	tests := []struct {
		country  string
		currency string
		lang     string
	}{
		{"Singapore", "IDR", "EN"},
		{"Malaysia", "IDR", "EN"},
		{"Indonesia", "IDR", "ID"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			resolver, store := newResolver(t)

			result := resolver.UpdateCountry(context.Background(), tt.country)
			require.True(t, result.Success)

			current := resolver.Current()
			assert.Equal(t, tt.country, current.Country)
			assert.Equal(t, tt.currency, current.Currency)
			assert.Equal(t, tt.lang, current.Language)

			persisted := store.Snapshot()
			assert.Equal(t, tt.country, persisted[constants.StorageKeyCountry])
			assert.Equal(t, tt.lang, persisted[constants.StorageKeyLanguage])
		})
	}
}

/*
TestUpdateCountry_Unsupported leaves state untouched.
*/
func TestUpdateCountry_Unsupported(t *testing.T) {
	resolver, store := newResolver(t)
	require.True(t, resolver.UpdateCountry(context.Background(), "Singapore").Success)
	before := resolver.Current()

	result := resolver.UpdateCountry(context.Background(), "Narnia")
	assert.False(t, result.Success)
	assert.Equal(t, apperr.CodeValidation, result.Code)
	assert.Equal(t, before, resolver.Current())
	assert.Equal(t, "Singapore", store.Snapshot()[constants.StorageKeyCountry])
}

/*
TestUpdateCountry_StorageFailure reports failure and keeps the old state.
*/
func TestUpdateCountry_StorageFailure(t *testing.T) {
	resolver, store := newResolver(t)
	store.failSet = true

	result := resolver.UpdateCountry(context.Background(), "Malaysia")
	assert.False(t, result.Success)
	assert.Equal(t, "Failed to save country", result.Message)
	assert.Equal(t, "Indonesia", resolver.Current().Country)
}

/*
TestUpdateLanguage_Override keeps the country while overriding the language.
*/
func TestUpdateLanguage_Override(t *testing.T) {
	resolver, store := newResolver(t)
	ctx := context.Background()

	require.True(t, resolver.UpdateCountry(ctx, "Indonesia").Success)
	require.True(t, resolver.UpdateLanguage(ctx, "en").Success)

	current := resolver.Current()
	assert.Equal(t, "EN", current.Language)
	assert.Equal(t, "Indonesia", current.Country)
	assert.Equal(t, "IDR", current.Currency)
	assert.Equal(t, "EN", store.Snapshot()[constants.StorageKeyLanguage])
	assert.Equal(t, "English", resolver.LanguageName())
	assert.Equal(t, language.English, resolver.LanguageTag())

	// The override lasts until the next country change.
	require.True(t, resolver.UpdateCountry(ctx, "Indonesia").Success)
	assert.Equal(t, "ID", resolver.Current().Language)
}

/*
TestUpdateLanguage_Unsupported rejects unknown codes.
*/
func TestUpdateLanguage_Unsupported(t *testing.T) {
	resolver, _ := newResolver(t)

	result := resolver.UpdateLanguage(context.Background(), "FR")
	assert.False(t, result.Success)
	assert.Equal(t, apperr.CodeValidation, result.Code)
	assert.Equal(t, "ID", resolver.Current().Language)
}

/*
TestAccessors covers the listing and naming helpers.
*/
func TestAccessors(t *testing.T) {
	resolver, _ := newResolver(t)

	assert.Equal(t, "Bahasa Indonesia", resolver.LanguageName())
	assert.Equal(t, language.Indonesian, resolver.LanguageTag())
	assert.Equal(t, []string{"Indonesia", "Singapore", "Malaysia"}, resolver.SupportedCountries())
	assert.Equal(t, []string{"ID", "EN"}, resolver.SupportedLanguages())
}
