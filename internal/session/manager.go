// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session is the single source of truth for "is the user logged in,
and as whom", plus every remote flow that changes the answer.

# Guarantees

  - Write-through: a mutation reports success only after storage holds the
    new token/user pair. A fresh [Manager.Initialize] in a new process then
    restores exactly that pair.
  - Pairing: token and user are committed and cleared together, in one
    MultiSet / MultiRemove. A half-persisted pair found at startup is removed.
  - Uniform results: every operation returns an [outcome.Result]. Network,
    validation, authorization, business and contract failures never escape
    as Go errors or panics.
  - Forced logout: only [Manager.RefreshUserInfo] logs the user out when the
    server rejects the token.

# Concurrency

Mutations are serialized by a mutex. Reads ([Manager.Current] and friends)
load an immutable snapshot and never block. Subscribers are notified after
the mutex is released, so they may call back into the manager. Snapshots
reach subscribers one at a time and in commit order: whichever goroutine is
already delivering also delivers snapshots committed meanwhile, so the last
snapshot a subscriber sees is always the current state.
*/
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/logger"
	"github.com/taibuivan/tripora/internal/platform/sec"
	"github.com/taibuivan/tripora/internal/remote"
	"github.com/taibuivan/tripora/internal/storage"
)

// # Contracts

// API is the subset of the remote client the manager depends on.
type API interface {
	Login(ctx context.Context, field, identifier, password string) (remote.AuthResponse, error)
	VerifyProviderToken(ctx context.Context, provider, credential string) (remote.AuthResponse, error)
	Register(ctx context.Context, userData map[string]any) (map[string]any, error)
	VerifyEmail(ctx context.Context, email, otp string) (remote.AuthResponse, error)
	ResendOTP(ctx context.Context, email string) (map[string]any, error)
	ForgotPassword(ctx context.Context, email string) (map[string]any, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) (map[string]any, error)
	Profile(ctx context.Context, token string) (map[string]any, error)
	UpdateUser(ctx context.Context, token, userID string, fields map[string]any) (map[string]any, error)
}

// # Manager

// Manager owns the session. Construct one per process and share it.
type Manager struct {
	api    API
	store  storage.Store
	logger zerolog.Logger
	now    func() time.Time

	// mu serializes every state mutation and its storage write.
	mu    sync.Mutex
	state atomic.Pointer[Session]

	started atomic.Bool
	ready   chan struct{}

	// subMu guards the subscriber set and the delivery queue.
	subMu       sync.Mutex
	subscribers map[int]func(Session)
	nextSub     int
	pending     []Session
	delivering  bool
}

// NewManager wires a manager. Its status is [StatusUnknown] until
// [Manager.Initialize] completes.
func NewManager(api API, store storage.Store, base *zerolog.Logger) *Manager {
	m := &Manager{
		api:         api,
		store:       store,
		logger:      logger.Component(base, "session"),
		now:         time.Now,
		ready:       make(chan struct{}),
		subscribers: make(map[int]func(Session)),
	}
	m.state.Store(&Session{Status: StatusUnknown})
	return m
}

// # Startup Gate

// Initialize restores the persisted session. It always completes; any read
// problem resolves to unauthenticated. The first call performs the load;
// concurrent and later calls wait for it and return the same outcome.
func (m *Manager) Initialize(ctx context.Context) Status {
	if !m.started.CompareAndSwap(false, true) {
		status, err := m.Wait(ctx)
		if err != nil {
			return m.Status()
		}
		return status
	}

	m.mu.Lock()
	snapshot := m.restoreLocked(ctx)
	m.mu.Unlock()

	close(m.ready)
	m.notify()

	m.logger.Info().Str("status", string(snapshot.Status)).Msg("session initialized")
	return snapshot.Status
}

// Ready is closed once [Manager.Initialize] has completed.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Wait blocks until the session has been initialized or ctx is done.
func (m *Manager) Wait(ctx context.Context) (Status, error) {
	select {
	case <-m.ready:
		return m.Status(), nil
	case <-ctx.Done():
		return StatusUnknown, ctx.Err()
	}
}

// restoreLocked reads the persisted pair. Callers hold m.mu.
func (m *Manager) restoreLocked(ctx context.Context) Session {
	token, hasToken, tokenErr := m.store.Get(ctx, constants.StorageKeyToken)
	rawUser, hasUser, userErr := m.store.Get(ctx, constants.StorageKeyUser)

	if tokenErr != nil || userErr != nil {
		m.logger.Warn().
			AnErr("token_error", tokenErr).
			AnErr("user_error", userErr).
			Msg("persisted session unreadable, starting logged out")
		return m.publish(&Session{Status: StatusUnauthenticated})
	}

	var user User
	if hasUser {
		var err error
		if user, err = decodeUser(rawUser); err != nil || len(user) == 0 {
			m.logger.Warn().Err(err).Msg("persisted user is not a JSON object")
			hasUser = false
		}
	}

	if hasToken && token != "" && hasUser {
		return m.publish(m.authenticated(token, user))
	}

	// Half a pair is worse than none.
	if hasToken || hasUser {
		m.logger.Warn().Bool("token", hasToken).Bool("user", hasUser).Msg("discarding incomplete persisted session")
		if err := m.store.MultiRemove(ctx, constants.StorageKeyToken, constants.StorageKeyUser); err != nil {
			m.logger.Error().Err(err).Msg("incomplete session not removed")
		}
	}

	return m.publish(&Session{Status: StatusUnauthenticated})
}

// # Accessors

// Current returns the latest committed snapshot.
func (m *Manager) Current() Session {
	return *m.state.Load()
}

// Status returns the derived authentication status.
func (m *Manager) Status() Status {
	return m.state.Load().Status
}

// IsAuthenticated reports whether a token and user are held.
func (m *Manager) IsAuthenticated() bool {
	return m.state.Load().Authenticated()
}

// TokenExpired reports whether the held token is a JWT whose exp has passed.
// Opaque tokens never report expired; the server decides.
func (m *Manager) TokenExpired() bool {
	return m.state.Load().Expired(m.now())
}

// # Subscriptions

// Subscribe registers fn to receive every committed snapshot. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(Session)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subscribers, id)
			m.subMu.Unlock()
		})
	}
}

// notify delivers queued snapshots. Never called with m.mu held. If another
// call is already delivering, it returns at once and that call picks up the
// queue, which also makes mutations from inside a subscriber safe.
func (m *Manager) notify() {
	m.subMu.Lock()
	if m.delivering {
		m.subMu.Unlock()
		return
	}
	m.delivering = true

	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending = m.pending[1:]

		listeners := make([]func(Session), 0, len(m.subscribers))
		for _, fn := range m.subscribers {
			listeners = append(listeners, fn)
		}
		m.subMu.Unlock()

		for _, fn := range listeners {
			fn(next)
		}
		m.subMu.Lock()
	}

	m.delivering = false
	m.subMu.Unlock()
}

// # Commit Helpers

// authenticated builds an authenticated snapshot.
func (m *Manager) authenticated(token string, user User) *Session {
	return &Session{
		Token:     token,
		User:      user.Clone(),
		Status:    StatusAuthenticated,
		ExpiresAt: sec.ExpiresAt(token),
	}
}

// publish swaps the snapshot and queues it for subscribers. Callers hold
// m.mu, so the queue is in commit order.
func (m *Manager) publish(s *Session) Session {
	m.state.Store(s)

	m.subMu.Lock()
	m.pending = append(m.pending, *s)
	m.subMu.Unlock()
	return *s
}

// commitPair persists token and user together, then publishes them.
func (m *Manager) commitPair(ctx context.Context, token string, user User) (Session, error) {
	encoded, err := json.Marshal(user)
	if err != nil {
		return Session{}, apperr.Internal(fmt.Errorf("session: encode user: %w", err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.MultiSet(ctx, map[string]string{
		constants.StorageKeyToken: token,
		constants.StorageKeyUser:  string(encoded),
	}); err != nil {
		return Session{}, err
	}

	return m.publish(m.authenticated(token, user)), nil
}

// commitUser replaces the user of the session that issued token. If that
// session has since ended or changed, the update is dropped.
func (m *Manager) commitUser(ctx context.Context, token string, user User) (Session, error) {
	encoded, err := json.Marshal(user)
	if err != nil {
		return Session{}, apperr.Internal(fmt.Errorf("session: encode user: %w", err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.state.Load()
	if !current.Authenticated() || current.Token != token {
		return Session{}, errSessionChanged
	}

	if err := m.store.Set(ctx, constants.StorageKeyUser, string(encoded)); err != nil {
		return Session{}, err
	}

	next := *current
	next.User = user.Clone()
	return m.publish(&next), nil
}

var errSessionChanged = apperr.Unauthorized("Your session changed. Please try again.")

// loginField picks the request field for a login identifier.
func loginField(identifier string) string {
	if strings.Contains(identifier, "@") {
		return remote.FieldEmail
	}
	return remote.FieldUsername
}
