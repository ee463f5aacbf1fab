// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for the Tripora client core.

Every failure produced below the public boundary of the session and settings
services (transport, remote API, storage, validation) is expressed as an
[AppError] so that the boundary can turn it into a uniform, user-presentable
result without inspecting error strings.

Taxonomy:

  - NETWORK_ERROR: No response from the remote API (connectivity, timeout).
  - VALIDATION_ERROR: Input rejected, either client-side or by the API (400/422).
  - UNAUTHORIZED: Credentials or bearer token rejected (401/403).
  - BUSINESS_ERROR: Any other server-reported rule violation.
  - CONTRACT_ERROR: A 2xx response missing the fields the contract promises.
  - INTERNAL_ERROR: Local failures (storage, encoding).
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNetwork      = "NETWORK_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeBusiness     = "BUSINESS_ERROR"
	CodeContract     = "CONTRACT_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
)

// AppError is the canonical error type for the client core.
//
// It carries a machine-readable code, a user-presentable message, the HTTP
// status reported by the remote API (zero when no response was received),
// and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for diagnostics only and is never surfaced as a message.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NETWORK_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to show to the user.
	Message string `json:"message"`
	// HTTPStatus is the status returned by the remote API, if any.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the request field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the user-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Transport Errors

// Network creates a NETWORK_ERROR for requests that never produced a response.
func Network(cause error) *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: "Unable to reach the server. Please check your connection.",
		Cause:   cause,
	}
}

// Contract creates a CONTRACT_ERROR for a successful status whose body
// violates the documented response shape.
func Contract(cause error) *AppError {
	return &AppError{
		Code:       CodeContract,
		Message:    "Unexpected response from server",
		HTTPStatus: http.StatusOK,
		Cause:      cause,
	}
}

// # Client Errors (4xx)

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Profile") // Returns "Profile not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate registrations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Business creates a BUSINESS_ERROR carrying the server-provided message.
func Business(status int, msg string) *AppError {
	return &AppError{
		Code:       CodeBusiness,
		Message:    msg,
		HTTPStatus: status,
	}
}

// # Local Errors

// Internal wraps an unexpected local failure (storage, encoding).
// The cause is stored for logging but never shown to the user.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
		Cause:   cause,
	}
}

// # Status Mapping

// FromStatus classifies a non-2xx response from the remote API.
//
// An empty msg is replaced with fallback so the caller always has text to show.
func FromStatus(status int, msg, fallback string) *AppError {
	if msg == "" {
		msg = fallback
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AppError{Code: CodeUnauthorized, Message: msg, HTTPStatus: status}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &AppError{Code: CodeValidation, Message: msg, HTTPStatus: status}
	case status == http.StatusNotFound:
		return &AppError{Code: CodeNotFound, Message: msg, HTTPStatus: status}
	case status == http.StatusConflict:
		return &AppError{Code: CodeConflict, Message: msg, HTTPStatus: status}
	case status == http.StatusTooManyRequests:
		return &AppError{Code: CodeRateLimited, Message: msg, HTTPStatus: status}
	default:
		return Business(status, msg)
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool {
	ae := As(err)
	return ae != nil && ae.Code == CodeUnauthorized
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
