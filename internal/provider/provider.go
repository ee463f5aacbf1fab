// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package provider models third-party sign-in (Google, Facebook, Microsoft) as
an [AuthProvider] capability that yields an opaque [Credential].

The session manager never sees how a credential was obtained; it only
exchanges it with the remote API. That keeps the OAuth machinery replaceable
and lets tests substitute a [Static] provider.

Architecture:

  - DeviceFlow: OAuth 2.0 device authorization grant (RFC 8628) via
    golang.org/x/oauth2, the flow a headless client can run.
  - Registry: the providers enabled by configuration, looked up by [Kind].
*/
package provider

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// # Definitions

// Kind names a sign-in provider as the remote API knows it.
type Kind string

const (
	Google    Kind = "google"
	Facebook  Kind = "facebook"
	Microsoft Kind = "microsoft"
)

// Kinds lists every supported provider.
var Kinds = []Kind{Google, Facebook, Microsoft}

// ErrUnsupported is returned for provider names outside [Kinds].
var ErrUnsupported = errors.New("provider: unsupported sign-in provider")

// ErrNotConfigured is returned when a supported provider has no client ID.
var ErrNotConfigured = errors.New("provider: sign-in provider not configured")

// ParseKind validates a provider name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Kinds, kind) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	return kind, nil
}

// Credential is the opaque proof of a third-party sign-in.
type Credential struct {
	Provider Kind
	Token    string
}

// AuthProvider obtains a [Credential] from one third-party identity provider.
type AuthProvider interface {
	Name() Kind
	SignIn(ctx context.Context) (Credential, error)
}

// # Static

// Static returns a fixed credential. Used in tests and for credentials that
// were obtained out of band (pasted from another device).
type Static struct {
	Kind  Kind
	Token string
	Err   error
}

// Name implements [AuthProvider].
func (s Static) Name() Kind { return s.Kind }

// SignIn implements [AuthProvider].
func (s Static) SignIn(ctx context.Context) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	if s.Err != nil {
		return Credential{}, s.Err
	}
	return Credential{Provider: s.Kind, Token: s.Token}, nil
}
