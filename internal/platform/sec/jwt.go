// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token handling.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT handling,
// at-rest sealing) from the session logic.
//
// The client never holds the key that signed its bearer token, so [Inspect]
// reads claims without verifying them. Its only use is to surface an expiry
// hint; the remote API stays the authority on whether a token is valid.
// [TokenIssuer] signs and verifies tokens and exists for the in-process fake API.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by [Inspect] for opaque (non-JWT) bearer tokens.
var ErrNotJWT = errors.New("sec: token is not a JWT")

// AuthClaims represents the payload embedded inside a bearer token.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Email is abbreviated to keep the JWT payload small.
	Email string `json:"eml,omitempty"`
}

// # Client-side Inspection

// Inspect decodes the claims of tokenString without verifying its signature.
func Inspect(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim, or the zero time when the token is
// opaque or carries no expiry.
func ExpiresAt(tokenString string) time.Time {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// # Issuing (fake API)

// TokenIssuer generates and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
}

// NewTokenIssuer creates a new TokenIssuer.
func NewTokenIssuer(secret []byte, issuer string) *TokenIssuer {
	return &TokenIssuer{secret: secret, issuer: issuer}
}

// Issue creates a signed token for a user.
func (service *TokenIssuer) Issue(userID, email string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a token string.
func (service *TokenIssuer) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
