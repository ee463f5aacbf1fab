// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.RequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.RequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.Logger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns fallback.
func GetLogger(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	logger, ok := ctx.Value(ctxkey.Logger).(zerolog.Logger)
	if !ok {
		return fallback
	}
	return logger
}

// # Authentication

// WithUserID returns a new context carrying the authenticated subject.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxkey.Subject, userID)
}

// GetUserID retrieves the authenticated subject, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.Subject).(string)
	return id
}
