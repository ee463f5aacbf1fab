// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/tripora/internal/platform/apperr"
)

// Only the fake API stores passwords, and only for test accounts.
const passwordCost = bcrypt.MinCost

// HashPassword returns the bcrypt hash of password. Input bcrypt cannot
// hash (over 72 bytes) is a validation error, anything else internal.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", apperr.ValidationError("password: Maximum 72 bytes",
			apperr.FieldError{Field: "password", Message: "Maximum 72 bytes"})
	case err != nil:
		return "", apperr.Internal(fmt.Errorf("sec: bcrypt: %w", err))
	}
	return string(hash), nil
}

// PasswordMatches reports whether password produced hash.
func PasswordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
