// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the HTTP processing chain of the fake remote API.

It acts as a series of decorators around the standard http.Handler, so that the
fake behaves like the real service where the client can observe it.

Standard Stack:

  - Trace: RequestID echo/generation for log correlation.
  - Log: Structured activity logging (zerolog).
  - Safe: Panic recovery to prevent test server crashes.
  - Auth: Bearer token verification for protected routes.
*/
package middleware

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/ctxutil"
	"github.com/taibuivan/tripora/internal/platform/respond"
	"github.com/taibuivan/tripora/internal/platform/sec"
	"github.com/taibuivan/tripora/pkg/uuid"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check if the client already provided an ID
			requestID := request.Header.Get(constants.HeaderXRequestID)

			// 2. Generate a new one if missing
			if requestID == "" {
				requestID = uuid.New()
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request status and latency.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()

			// 1. Create a sub-logger for this specific request
			requestLogger := logger.With().
				Str("request_id", ctxutil.GetRequestID(request.Context())).
				Str("method", request.Method).
				Str("path", request.URL.Path).
				Logger()

			// 2. Inject this logger into the context for downstream use
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			// 3. Final log entry after the request is finished
			event := requestLogger.Info()
			if wrappedWriter.status >= 500 {
				event = requestLogger.Error()
			} else if wrappedWriter.status >= 400 {
				event = requestLogger.Warn()
			}

			event.
				Int("status", wrappedWriter.status).
				Int64("latency_ms", time.Since(startTime).Milliseconds()).
				Str("accept_language", request.Header.Get(constants.HeaderAcceptLanguage)).
				Msg("http_request_finished")
		})
	}
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs stack trace, and returns 500.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					reqLogger := ctxutil.GetLogger(request.Context(), zerolog.Nop())
					reqLogger.Error().
						Interface("error", err).
						Str("stack", string(stackTrace[:length])).
						Msg("panic_recovered")

					respond.JSON(writer, http.StatusInternalServerError, respond.ErrorEnvelope{
						Message: "An unexpected error occurred",
						Code:    apperr.CodeInternal,
					})
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Authentication

// TokenVerifier defines the interface needed to verify bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// RequireBearer rejects requests without a valid 'Authorization: Bearer <token>'
// header and injects the token subject into the context.
func RequireBearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenString, ok := strings.CutPrefix(request.Header.Get(constants.HeaderAuthorization), constants.BearerPrefix)
			if !ok || tokenString == "" {
				respond.Error(writer, request, apperr.Unauthorized("Missing bearer token"))
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := ctxutil.WithUserID(request.Context(), claims.Subject)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
