// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package i18n translates UI keys into the language resolved by the settings
service.

The dictionary ships embedded in the binary, one YAML file per language
(locales/en.yaml holds "EN"). Tables are not symmetric: some keys exist in
only one language. Lookups never cross-fill from another language; a missing
key translates to the key itself, and [Dictionary.Gaps] reports what each
language lacks.
*/
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Dictionary maps language code to key to text. It is immutable once loaded.
type Dictionary struct {
	entries map[string]map[string]string
}

// Load reads the embedded dictionary.
func Load() (*Dictionary, error) {
	return LoadFS(localesFS, "locales")
}

// MustLoad is [Load] for the embedded files, which are known to be valid.
func MustLoad() *Dictionary {
	dict, err := Load()
	if err != nil {
		panic(err)
	}
	return dict
}

// LoadFS reads every *.yaml file in dir. The upper-cased file stem is the
// language code.
func LoadFS(fsys fs.FS, dir string) (*Dictionary, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("i18n: list locales: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("i18n: no locale files in %s", dir)
	}

	dict := &Dictionary{entries: make(map[string]map[string]string, len(files))}
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", file, err)
		}

		table := map[string]string{}
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", file, err)
		}

		lang := strings.ToUpper(strings.TrimSuffix(path.Base(file), ".yaml"))
		dict.entries[lang] = table
	}

	return dict, nil
}

// NewDictionary builds a dictionary from in-memory tables. The tables are copied.
func NewDictionary(tables map[string]map[string]string) *Dictionary {
	dict := &Dictionary{entries: make(map[string]map[string]string, len(tables))}
	for lang, table := range tables {
		copied := make(map[string]string, len(table))
		for key, text := range table {
			copied[key] = text
		}
		dict.entries[strings.ToUpper(lang)] = copied
	}
	return dict
}

// Lookup returns the text for key in lang.
func (d *Dictionary) Lookup(lang, key string) (string, bool) {
	text, ok := d.entries[strings.ToUpper(lang)][key]
	return text, ok
}

// Languages returns the loaded language codes, sorted.
func (d *Dictionary) Languages() []string {
	langs := make([]string, 0, len(d.entries))
	for lang := range d.entries {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Gaps reports, per language, the keys some other language defines but it
// does not. Languages without gaps are omitted. Keys are sorted.
func (d *Dictionary) Gaps() map[string][]string {
	union := map[string]struct{}{}
	for _, table := range d.entries {
		for key := range table {
			union[key] = struct{}{}
		}
	}

	gaps := map[string][]string{}
	for lang, table := range d.entries {
		for key := range union {
			if _, ok := table[key]; !ok {
				gaps[lang] = append(gaps[lang], key)
			}
		}
		slices.Sort(gaps[lang])
	}

	for lang, keys := range gaps {
		if len(keys) == 0 {
			delete(gaps, lang)
		}
	}
	return gaps
}
