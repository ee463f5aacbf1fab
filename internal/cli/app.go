// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/i18n"
	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/provider"
	"github.com/taibuivan/tripora/internal/remote"
	"github.com/taibuivan/tripora/internal/session"
	"github.com/taibuivan/tripora/internal/settings"
	"github.com/taibuivan/tripora/internal/storage"
)

// App is the wired client core. Every service is constructed once here and
// shared by the commands.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      storage.Store
	Remote     *remote.Client
	Session    *session.Manager
	Settings   *settings.Resolver
	Dictionary *i18n.Dictionary
	Translator *i18n.Translator
	Providers  *provider.Registry
}

/*
NewApp wires the core and runs both startup gates.

Startup Sequence:

 1. Open the configured storage backend.
 2. Resolve settings (country, currency, language).
 3. Build the remote client, tagged with the resolved language.
 4. Restore the persisted session.
 5. Load the dictionary and bind the translator to the settings.
 6. Enable the configured sign-in providers.
*/
func NewApp(ctx context.Context, cfg *config.Config, log *zerolog.Logger, prompter provider.Prompter) (*App, error) {
	startupCtx, cancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer cancel()

	store, err := storage.Open(startupCtx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	resolver := settings.NewResolver(store, log)
	resolver.Initialize(startupCtx)

	client := remote.NewFromConfig(cfg, resolver, log)

	manager := session.NewManager(client, store, log)
	manager.Initialize(startupCtx)

	dictionary, err := i18n.Load()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	return &App{
		Config:     cfg,
		Logger:     *log,
		Store:      store,
		Remote:     client,
		Session:    manager,
		Settings:   resolver,
		Dictionary: dictionary,
		Translator: i18n.NewTranslator(dictionary, resolver, log),
		Providers:  provider.RegistryFromConfig(cfg, prompter, log),
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.Store.Close()
}
