// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package i18n

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/logger"
)

// LanguageSource supplies the current language code.
// The settings resolver satisfies it.
type LanguageSource interface {
	Language() string
}

// Translator resolves keys in the source's current language.
// It is safe for concurrent use.
type Translator struct {
	dict   *Dictionary
	source LanguageSource
	logger zerolog.Logger

	// warned holds "LANG\x00key" for gaps already logged.
	warned sync.Map
}

// NewTranslator binds a dictionary to a language source.
func NewTranslator(dict *Dictionary, source LanguageSource, base *zerolog.Logger) *Translator {
	return &Translator{
		dict:   dict,
		source: source,
		logger: logger.Component(base, "i18n"),
	}
}

// T returns the translation of key, or key itself when the current language
// has none. The first miss per (language, key) is logged as a warning.
func (t *Translator) T(key string) string {
	if text, ok := t.lookup(key); ok {
		return text
	}
	return key
}

// Tf formats the translated template with args. A missing key is returned
// bare; it is not a template.
func (t *Translator) Tf(key string, args ...any) string {
	template, ok := t.lookup(key)
	if !ok {
		return key
	}
	return fmt.Sprintf(template, args...)
}

// lookup resolves key in the current language and warns on the first miss.
func (t *Translator) lookup(key string) (string, bool) {
	lang := t.source.Language()
	if text, ok := t.dict.Lookup(lang, key); ok {
		return text, true
	}

	if _, seen := t.warned.LoadOrStore(lang+"\x00"+key, struct{}{}); !seen {
		t.logger.Warn().Str("lang", lang).Str("key", key).Msg("missing translation")
	}
	return "", false
}
