// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug reduces free-form Unicode text to a comparable ASCII key.
//
// User-typed names ("  malaysia", "Málaysia", "MALAYSIA") all reduce to the
// same key ("malaysia"), so lookups against fixed tables tolerate casing,
// accents and stray punctuation.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From returns the lowercase ASCII key of s: accents are dropped, every run
// of other characters becomes one hyphen, and the ends are trimmed.
func From(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pending := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}
	return b.String()
}

// Equal reports whether a and b reduce to the same non-empty key.
func Equal(a, b string) bool {
	key := From(a)
	return key != "" && key == From(b)
}
