// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/apitest"
	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/remote"
	"github.com/taibuivan/tripora/internal/session"
	"github.com/taibuivan/tripora/internal/storage"
)

var errDisk = errors.New("disk unavailable")

// faultyStore wraps a memory store and fails chosen operations.
type faultyStore struct {
	*storage.Memory
	failGet    atomic.Bool
	failWrite  atomic.Bool
	failRemove atomic.Bool
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Memory: storage.NewMemory()}
}

func (f *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet.Load() {
		return "", false, apperr.Internal(errDisk)
	}
	return f.Memory.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key, value string) error {
	if f.failWrite.Load() {
		return apperr.Internal(errDisk)
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *faultyStore) MultiSet(ctx context.Context, entries map[string]string) error {
	if f.failWrite.Load() {
		return apperr.Internal(errDisk)
	}
	return f.Memory.MultiSet(ctx, entries)
}

func (f *faultyStore) MultiRemove(ctx context.Context, keys ...string) error {
	if f.failRemove.Load() {
		return apperr.Internal(errDisk)
	}
	return f.Memory.MultiRemove(ctx, keys...)
}

// fixture is a manager talking to a started fake API.
type fixture struct {
	api     *apitest.Server
	client  *remote.Client
	store   *faultyStore
	manager *session.Manager
}

const (
	testEmail    = "user@example.com"
	testUsername = "traveller"
	testPassword = "secret-pass"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	api := apitest.Start(zerolog.Nop())
	t.Cleanup(api.Close)

	api.AddAccount(apitest.Account{
		Username: testUsername,
		Email:    testEmail,
		Password: testPassword,
		Verified: true,
		Profile:  map[string]any{"first_name": "Ayu", "last_name": "Lestari"},
	})

	client := remote.New(remote.Options{BaseURL: api.URL()}, nil)
	store := newFaultyStore()
	manager := session.NewManager(client, store, nil)
	manager.Initialize(context.Background())

	return &fixture{api: api, client: client, store: store, manager: manager}
}

// restart simulates a new process on the same storage.
func (f *fixture) restart() *session.Manager {
	manager := session.NewManager(f.client, f.store, nil)
	manager.Initialize(context.Background())
	return manager
}
