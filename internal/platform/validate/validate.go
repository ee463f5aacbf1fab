// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate checks user input on the device before it is sent anywhere.

Every rule appends to one [Validator]; [Validator.Err] turns the collected
failures into a single VALIDATION_ERROR whose message names the first bad
field, ready to be shown to the user.

	v := &validate.Validator{}
	v.Identifier("identifier", id).Required("password", pw)
	if err := v.Err(); err != nil { ... }

A Validator is single-use and not safe for concurrent use.
*/
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/tripora/internal/platform/apperr"
)

// MinPasswordLength applies to passwords the client creates (register and
// reset). Login accepts whatever the account already has.
const MinPasswordLength = 8

// Validator accumulates field failures.
type Validator struct {
	failures []apperr.FieldError
}

// Check records message against field unless ok holds. Every other rule is
// built on it.
func (v *Validator) Check(field string, ok bool, message string) *Validator {
	if !ok {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required rejects blank values.
func (v *Validator) Required(field, value string) *Validator {
	return v.Check(field, strings.TrimSpace(value) != "", "This field is required")
}

// Email rejects anything net/mail cannot parse as a bare address.
func (v *Validator) Email(field, value string) *Validator {
	return v.Check(field, isAddress(value), "Must be a valid email address")
}

// Identifier validates a login name: required, and a well-formed address
// when it contains "@". Anything else is treated as a username.
func (v *Validator) Identifier(field, value string) *Validator {
	switch {
	case strings.TrimSpace(value) == "":
		return v.Required(field, value)
	case strings.Contains(value, "@"):
		return v.Email(field, value)
	default:
		return v.Check(field, !strings.ContainsFunc(value, unicode.IsSpace), "Username must not contain spaces")
	}
}

// Password enforces [MinPasswordLength] counted in characters.
func (v *Validator) Password(field, value string) *Validator {
	if value == "" {
		return v.Required(field, value)
	}
	return v.Check(field, utf8.RuneCountInString(value) >= MinPasswordLength,
		fmt.Sprintf("Minimum %d characters", MinPasswordLength))
}

// OTP requires a one-time code made of ASCII digits only.
func (v *Validator) OTP(field, value string) *Validator {
	if value == "" {
		return v.Required(field, value)
	}
	return v.Check(field, strings.Trim(value, "0123456789") == "", "Must contain digits only")
}

// Err reports the collected failures as one error, or nil.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}
	first := v.failures[0]
	return apperr.ValidationError(first.Field+": "+first.Message, v.failures...)
}

// HasErrors reports whether any rule failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// isAddress accepts "user@host" but not display-name forms like
// "Ayu <ayu@example.com>".
func isAddress(value string) bool {
	parsed, err := mail.ParseAddress(value)
	return err == nil && parsed.Address == value
}
