// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/taibuivan/tripora/pkg/slug"
)

// # Static Configuration

// Language codes.
const (
	LangID = "ID"
	LangEN = "EN"
)

// Defaults adopted on first run and whenever persisted values are unusable.
const (
	DefaultCountry = "Indonesia"
	DefaultLang    = LangID
)

// region is one row of the country table.
type region struct {
	country  string
	currency string
	lang     string
}

// regions is ordered for display.
var regions = []region{
	{country: "Indonesia", currency: "IDR", lang: LangID},
	{country: "Singapore", currency: "IDR", lang: LangEN},
	{country: "Malaysia", currency: "IDR", lang: LangEN},
}

// languages maps a code to its display name and BCP 47 tag.
var languages = map[string]struct {
	name string
	tag  language.Tag
}{
	LangID: {name: "Bahasa Indonesia", tag: language.Indonesian},
	LangEN: {name: "English", tag: language.English},
}

// lookupRegion finds a country ignoring case, accents and surrounding noise.
func lookupRegion(country string) (region, bool) {
	for _, r := range regions {
		if slug.Equal(r.country, country) {
			return r, true
		}
	}
	return region{}, false
}

// canonicalLang normalizes a language code, reporting whether it is supported.
func canonicalLang(code string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	_, ok := languages[upper]
	return upper, ok
}
