// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package settings owns the user's country, currency and display language.

Invariants:

  - Currency is never persisted. It is recomputed from the country through
    the static table every time the country is adopted.
  - The language defaults from the country but may be overridden; an
    override survives until the next country change.
  - There is always a value: first runs and unreadable storage fall back to
    Indonesia / IDR / ID.

Reads are lock-free snapshots; updates are serialized and written through to
storage before they become visible.
*/
package settings

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/logger"
	"github.com/taibuivan/tripora/internal/platform/outcome"
	"github.com/taibuivan/tripora/internal/platform/validate"
	"github.com/taibuivan/tripora/internal/storage"
)

// Settings is the resolved locale triple.
type Settings struct {
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Language string `json:"lang"`
}

// Resolver is the settings service. Construct one per process.
type Resolver struct {
	store  storage.Store
	logger zerolog.Logger

	// mu serializes updates; current is read without it.
	mu      sync.Mutex
	current atomic.Pointer[Settings]
}

// NewResolver returns a resolver holding the defaults until [Resolver.Initialize] runs.
func NewResolver(store storage.Store, base *zerolog.Logger) *Resolver {
	r := &Resolver{
		store:  store,
		logger: logger.Component(base, "settings"),
	}
	r.current.Store(defaults())
	return r
}

func defaults() *Settings {
	home, _ := lookupRegion(DefaultCountry)
	return &Settings{Country: home.country, Currency: home.currency, Language: DefaultLang}
}

// # Lifecycle

// Initialize loads the persisted country and language. It never fails:
// unusable or unreadable values resolve to the defaults.
//
// A first run (or an unsupported persisted country) persists the defaults so
// later reads are stable. A read error does not, so a transient failure
// cannot overwrite the user's choice.
func (r *Resolver) Initialize(ctx context.Context) Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	country, countryFound, err := r.store.Get(ctx, constants.StorageKeyCountry)
	if err != nil {
		r.logger.Warn().Err(err).Msg("settings read failed, using defaults")
		return r.adopt(defaults())
	}

	lang, langFound, err := r.store.Get(ctx, constants.StorageKeyLanguage)
	if err != nil {
		r.logger.Warn().Err(err).Msg("settings read failed, using defaults")
		return r.adopt(defaults())
	}

	home, supported := lookupRegion(country)
	if !countryFound || !supported {
		if countryFound {
			r.logger.Warn().Str("country", country).Msg("persisted country unsupported, resetting")
		}
		resolved := defaults()
		r.persistBestEffort(ctx, resolved)
		return r.adopt(resolved)
	}

	resolved := &Settings{Country: home.country, Currency: home.currency, Language: home.lang}

	code, ok := canonicalLang(lang)
	if langFound && ok {
		resolved.Language = code
	} else {
		// Country without a usable language: repair from the table.
		r.persistBestEffort(ctx, resolved)
	}

	return r.adopt(resolved)
}

// # Mutations

// UpdateCountry switches the country and cascades currency and language.
// Unsupported countries leave the state unchanged.
func (r *Resolver) UpdateCountry(ctx context.Context, country string) outcome.Result {
	home, supported := lookupRegion(country)

	validator := &validate.Validator{}
	validator.Check("country", supported, fmt.Sprintf("Unsupported country %q", country))
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Unsupported country")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := &Settings{Country: home.country, Currency: home.currency, Language: home.lang}
	if err := r.store.MultiSet(ctx, map[string]string{
		constants.StorageKeyCountry:  next.Country,
		constants.StorageKeyLanguage: next.Language,
	}); err != nil {
		r.logger.Error().Err(err).Str("country", next.Country).Msg("country update not persisted")
		return outcome.From(err, "Failed to save country")
	}

	r.adopt(next)
	r.logger.Info().Str("country", next.Country).Str("lang", next.Language).Msg("country updated")
	return outcome.OK()
}

// UpdateLanguage overrides the display language. Any supported code is
// accepted regardless of the country.
func (r *Resolver) UpdateLanguage(ctx context.Context, lang string) outcome.Result {
	code, supported := canonicalLang(lang)

	validator := &validate.Validator{}
	validator.Check("lang", supported, fmt.Sprintf("Unsupported language %q", lang))
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Unsupported language")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Set(ctx, constants.StorageKeyLanguage, code); err != nil {
		r.logger.Error().Err(err).Str("lang", code).Msg("language update not persisted")
		return outcome.From(err, "Failed to save language")
	}

	next := *r.current.Load()
	next.Language = code
	r.adopt(&next)

	r.logger.Info().Str("lang", code).Msg("language updated")
	return outcome.OK()
}

// # Accessors

// Current returns the resolved settings.
func (r *Resolver) Current() Settings {
	return *r.current.Load()
}

// Language returns the resolved language code.
func (r *Resolver) Language() string {
	return r.current.Load().Language
}

// LanguageName maps the current language code to its display name.
func (r *Resolver) LanguageName() string {
	if entry, ok := languages[r.Language()]; ok {
		return entry.name
	}
	return r.Language()
}

// LanguageTag maps the current language code to a BCP 47 tag.
func (r *Resolver) LanguageTag() language.Tag {
	if entry, ok := languages[r.Language()]; ok {
		return entry.tag
	}
	return language.Indonesian
}

// SupportedCountries lists the selectable countries in display order.
func (r *Resolver) SupportedCountries() []string {
	countries := make([]string, len(regions))
	for i, reg := range regions {
		countries[i] = reg.country
	}
	return countries
}

// SupportedLanguages lists the selectable language codes.
func (r *Resolver) SupportedLanguages() []string {
	return []string{LangID, LangEN}
}

// # Helpers

// adopt publishes next. Callers hold r.mu.
func (r *Resolver) adopt(next *Settings) Settings {
	r.current.Store(next)
	return *next
}

// persistBestEffort writes the pair, logging instead of failing.
func (r *Resolver) persistBestEffort(ctx context.Context, s *Settings) {
	err := r.store.MultiSet(ctx, map[string]string{
		constants.StorageKeyCountry:  s.Country,
		constants.StorageKeyLanguage: s.Language,
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("default settings not persisted")
	}
}
