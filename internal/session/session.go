// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
)

// Status is the derived authentication state.
type Status string

const (
	// StatusUnknown holds only until the persisted session has been read.
	StatusUnknown         Status = "unknown"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// User is the profile object returned by the API, passed through opaquely.
// It is never mutated in place; updates replace it.
type User map[string]any

// ID returns the user identifier as a string, whatever its JSON type.
func (u User) ID() string {
	switch id := u["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	case int:
		return strconv.Itoa(id)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// decodeUser parses a persisted user. Numbers are kept as [json.Number], so
// an ID beyond 2^53 is written back exactly as the server sent it.
func decodeUser(raw string) (User, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	var user User
	if err := decoder.Decode(&user); err != nil {
		return nil, err
	}
	return user, nil
}

// Email returns the email field, if any.
func (u User) Email() string {
	email, _ := u["email"].(string)
	return email
}

// Name returns a display name from name or first_name/last_name.
func (u User) Name() string {
	if name, ok := u["name"].(string); ok && name != "" {
		return name
	}
	first, _ := u["first_name"].(string)
	last, _ := u["last_name"].(string)
	return strings.TrimSpace(first + " " + last)
}

// Clone returns a shallow copy.
func (u User) Clone() User {
	return maps.Clone(u)
}

// Session is an immutable snapshot of the authentication state.
//
// Token and User are either both set (authenticated) or both empty.
type Session struct {
	Token  string
	User   User
	Status Status

	// ExpiresAt is read from the token when it is a JWT; zero otherwise.
	ExpiresAt time.Time
}

// Authenticated reports whether the snapshot holds a token and user.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Expired reports whether the token carries an expiry in the past.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
