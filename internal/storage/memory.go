// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"maps"
	"sync"
)

// Memory is an in-process [Store]. Its contents die with the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty [Memory] store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements [Store].
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	return value, ok, nil
}

// Set implements [Store].
func (m *Memory) Set(ctx context.Context, key, value string) error {
	return m.MultiSet(ctx, map[string]string{key: value})
}

// MultiSet implements [Store].
func (m *Memory) MultiSet(ctx context.Context, entries map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	maps.Copy(m.data, entries)
	return nil
}

// Remove implements [Store].
func (m *Memory) Remove(ctx context.Context, key string) error {
	return m.MultiRemove(ctx, key)
}

// MultiRemove implements [Store].
func (m *Memory) MultiRemove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// Close implements [Store].
func (m *Memory) Close() error { return nil }

// Snapshot returns a copy of the stored entries.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.data)
}
