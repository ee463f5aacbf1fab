// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the secretbox key length.
	KeySize = 32
	// nonceSize is the secretbox nonce length.
	nonceSize = 24
)

// ErrOpen is returned when a sealed value was tampered with or sealed under another key.
var ErrOpen = errors.New("sec: cannot open sealed value")

// DeriveKey stretches an operator secret into a secretbox key.
// 'info' separates keys used for different purposes from the same secret.
func DeriveKey(secret, info string) ([KeySize]byte, error) {
	var key [KeySize]byte
	if secret == "" {
		return key, errors.New("sec: empty secret")
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return key, fmt.Errorf("sec: key derivation failed: %w", err)
	}
	return key, nil
}

// Seal encrypts and authenticates plaintext. The random nonce is prepended.
func Seal(key *[KeySize]byte, plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("sec: nonce generation failed: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// Open reverses [Seal].
func Open(key *[KeySize]byte, sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrOpen
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrOpen
	}
	return plaintext, nil
}
