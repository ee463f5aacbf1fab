// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/sec"
)

// sealInfo binds derived keys to this use of the operator secret.
const sealInfo = "tripora/storage/v1"

// Sealed encrypts values before they reach the wrapped [Store]. Keys stay
// in clear text so the backend can still address them.
type Sealed struct {
	inner Store
	key   [sec.KeySize]byte
}

// NewSealed derives the sealing key from secret and wraps inner.
func NewSealed(inner Store, secret string) (*Sealed, error) {
	key, err := sec.DeriveKey(secret, sealInfo)
	if err != nil {
		return nil, err
	}
	return &Sealed{inner: inner, key: key}, nil
}

// Get implements [Store]. A value that cannot be opened is an internal error.
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	encoded, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false, apperr.Internal(fmt.Errorf("storage: %s is not sealed: %w", key, err))
	}

	plain, err := sec.Open(&s.key, sealed)
	if err != nil {
		return "", false, apperr.Internal(fmt.Errorf("storage: open %s: %w", key, err))
	}
	return string(plain), true, nil
}

// Set implements [Store].
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	return s.MultiSet(ctx, map[string]string{key: value})
}

// MultiSet implements [Store].
func (s *Sealed) MultiSet(ctx context.Context, entries map[string]string) error {
	sealed := make(map[string]string, len(entries))
	for key, value := range entries {
		box, err := sec.Seal(&s.key, []byte(value))
		if err != nil {
			return apperr.Internal(err)
		}
		sealed[key] = base64.StdEncoding.EncodeToString(box)
	}
	return s.inner.MultiSet(ctx, sealed)
}

// Remove implements [Store].
func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

// MultiRemove implements [Store].
func (s *Sealed) MultiRemove(ctx context.Context, keys ...string) error {
	return s.inner.MultiRemove(ctx, keys...)
}

// Ping implements [Pinger] by pinging the wrapped store.
func (s *Sealed) Ping(ctx context.Context) error {
	return Ping(ctx, s.inner)
}

// Close implements [Store].
func (s *Sealed) Close() error {
	return s.inner.Close()
}
