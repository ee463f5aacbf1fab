// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package outcome defines the uniform result returned across the public boundary
of the session and settings services.

Consumers (screens, CLI commands) never receive raw Go errors from those
services. They receive a [Result] that says whether the operation succeeded,
and if not, which message to show. Deciding how to show it (alert, inline text,
toast) is the consumer's concern.
*/
package outcome

import (
	"github.com/taibuivan/tripora/internal/platform/apperr"
)

// Result is the success/failure envelope of a service operation.
type Result struct {
	// Success reports whether the operation completed.
	Success bool `json:"success"`
	// Message is the user-presentable failure text. Empty on success.
	Message string `json:"message,omitempty"`
	// Code is the [apperr] code of the failure. Empty on success.
	Code string `json:"code,omitempty"`
	// Data carries the server payload for operations that expose it (e.g. register).
	Data map[string]any `json:"data,omitempty"`
}

// OK returns a successful [Result].
func OK() Result {
	return Result{Success: true}
}

// WithData returns a successful [Result] carrying a server payload.
func WithData(data map[string]any) Result {
	return Result{Success: true, Data: data}
}

// Fail returns a failed [Result] with an explicit code and message.
func Fail(code, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}

// From converts any error into a failed [Result].
//
// Messages of [apperr.AppError] values are user-safe and used as-is. Internal
// failures, empty messages and non-AppError values use fallback instead, so a
// wrapped cause never reaches the user.
func From(err error, fallback string) Result {
	ae := apperr.As(err)
	if ae == nil {
		return Fail(apperr.CodeInternal, fallback)
	}

	message := ae.Message
	if message == "" || ae.Code == apperr.CodeInternal {
		message = fallback
	}

	return Fail(ae.Code, message)
}
