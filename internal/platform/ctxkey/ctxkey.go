// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys shared by ctxutil and its callers.
// The key type is unexported so no other package can collide with them.
package ctxkey

type key uint8

const (
	// RequestID carries the X-Request-ID of the current call.
	RequestID key = iota + 1
	// Logger carries a request-scoped zerolog.Logger.
	Logger
	// Subject carries the user ID authenticated by the fake API.
	Subject
)
