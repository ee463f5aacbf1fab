// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package provider

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/platform/logger"
	"github.com/taibuivan/tripora/pkg/slice"
)

// # Endpoints

// facebookDevice is Facebook's device login endpoint pair. Facebook accepts
// the standard grant when the client ID is "APP_ID|CLIENT_TOKEN".
var facebookDevice = oauth2.Endpoint{
	DeviceAuthURL: "https://graph.facebook.com/v2.6/device/login",
	TokenURL:      "https://graph.facebook.com/v2.6/device/login_status",
	AuthStyle:     oauth2.AuthStyleInParams,
}

// openIDScopes asks for an id_token alongside the access token.
var openIDScopes = []string{"openid", "email", "profile"}

// # Contracts

// Prompter shows the user where to enter the device code. The CLI prints it;
// a GUI would render a QR code.
type Prompter interface {
	Prompt(ctx context.Context, kind Kind, verificationURI, userCode string) error
}

// PrompterFunc adapts a function to [Prompter].
type PrompterFunc func(ctx context.Context, kind Kind, verificationURI, userCode string) error

// Prompt implements [Prompter].
func (f PrompterFunc) Prompt(ctx context.Context, kind Kind, verificationURI, userCode string) error {
	return f(ctx, kind, verificationURI, userCode)
}

// # Device Flow

// DeviceFlow runs the OAuth 2.0 device authorization grant.
type DeviceFlow struct {
	kind     Kind
	oauth    *oauth2.Config
	prompter Prompter
	logger   zerolog.Logger
}

// NewDeviceFlow builds a provider for kind against an arbitrary endpoint.
func NewDeviceFlow(kind Kind, oauth *oauth2.Config, prompter Prompter, base *zerolog.Logger) *DeviceFlow {
	return &DeviceFlow{
		kind:     kind,
		oauth:    oauth,
		prompter: prompter,
		logger:   logger.Component(base, "provider").With().Str("provider", string(kind)).Logger(),
	}
}

// Name implements [AuthProvider].
func (d *DeviceFlow) Name() Kind { return d.kind }

// SignIn implements [AuthProvider]. It blocks until the user approves,
// the code expires or ctx is canceled.
//
// The credential is the id_token when the provider issues one, otherwise
// the access token.
func (d *DeviceFlow) SignIn(ctx context.Context) (Credential, error) {
	authorization, err := d.oauth.DeviceAuth(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("provider: %s device authorization: %w", d.kind, err)
	}

	uri := authorization.VerificationURIComplete
	if uri == "" {
		uri = authorization.VerificationURI
	}

	if err := d.prompter.Prompt(ctx, d.kind, uri, authorization.UserCode); err != nil {
		return Credential{}, err
	}

	d.logger.Debug().Time("expires_at", authorization.Expiry).Msg("awaiting device approval")

	token, err := d.oauth.DeviceAccessToken(ctx, authorization)
	if err != nil {
		return Credential{}, fmt.Errorf("provider: %s device token: %w", d.kind, err)
	}

	credential := token.AccessToken
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		credential = idToken
	}
	if credential == "" {
		return Credential{}, errors.New("provider: token response carried no credential")
	}

	d.logger.Info().Msg("device sign-in approved")
	return Credential{Provider: d.kind, Token: credential}, nil
}

// # Registry

// Registry holds the providers enabled by configuration.
type Registry struct {
	providers map[Kind]AuthProvider
}

// NewRegistry builds a registry from explicit providers.
func NewRegistry(providers ...AuthProvider) *Registry {
	registry := &Registry{providers: make(map[Kind]AuthProvider, len(providers))}
	for _, p := range providers {
		registry.providers[p.Name()] = p
	}
	return registry
}

// RegistryFromConfig enables each provider whose client ID is configured.
func RegistryFromConfig(cfg *config.Config, prompter Prompter, base *zerolog.Logger) *Registry {
	var providers []AuthProvider

	if cfg.GoogleWebClientID != "" {
		providers = append(providers, NewDeviceFlow(Google, &oauth2.Config{
			ClientID:     cfg.GoogleWebClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     endpoints.Google,
			Scopes:       openIDScopes,
		}, prompter, base))
	}

	if cfg.MicrosoftClientID != "" {
		providers = append(providers, NewDeviceFlow(Microsoft, &oauth2.Config{
			ClientID: cfg.MicrosoftClientID,
			Endpoint: endpoints.AzureAD(cfg.MicrosoftTenant),
			Scopes:   openIDScopes,
		}, prompter, base))
	}

	if cfg.FacebookAppID != "" && cfg.FacebookClientToken != "" {
		providers = append(providers, NewDeviceFlow(Facebook, &oauth2.Config{
			ClientID: cfg.FacebookAppID + "|" + cfg.FacebookClientToken,
			Endpoint: facebookDevice,
			Scopes:   []string{"public_profile", "email"},
		}, prompter, base))
	}

	return NewRegistry(providers...)
}

// Lookup returns the provider for kind.
func (r *Registry) Lookup(kind Kind) (AuthProvider, error) {
	if !slices.Contains(Kinds, kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, kind)
	}
	p, ok := r.providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, kind)
	}
	return p, nil
}

// Enabled lists the configured provider kinds in canonical order.
func (r *Registry) Enabled() []Kind {
	return slice.Filter(Kinds, func(kind Kind) bool {
		_, ok := r.providers[kind]
		return ok
	})
}
