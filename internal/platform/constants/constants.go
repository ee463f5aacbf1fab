// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the client core.

It defines persisted storage keys, the fixed remote API routes, HTTP header
names and default timings shared between the remote client, the storage
backends and the services.

Categories:

  - Storage Keys: The persisted key-value vocabulary.
  - API Routes: The remote REST contract (fixed, external to this code base).
  - Timing: Connection and request bounds.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tripora"
	AppVersion = "0.1.0-dev"
)

// # Storage Keys

const (
	// StorageKeyToken holds the bearer token issued by the remote API.
	StorageKeyToken = "userToken"

	// StorageKeyUser holds the JSON-serialized user profile.
	StorageKeyUser = "userInfo"

	// StorageKeyLanguage holds the resolved display language code.
	StorageKeyLanguage = "user-language"

	// StorageKeyCountry holds the selected country name.
	StorageKeyCountry = "user-country"
)

// # API Routes

const (
	RouteLogin           = "/auth/login"
	RouteGoogleVerify    = "/auth/google/verify-token"
	RouteFacebookVerify  = "/auth/facebook/verify-token"
	RouteMicrosoftVerify = "/auth/microsoft/verify-token"
	RouteRegister        = "/auth/register"
	RouteVerifyEmail     = "/auth/verify-email"
	RouteResendOTP       = "/auth/resend-otp"
	RouteForgotPassword  = "/auth/forgot-password"
	RouteResetPassword   = "/auth/reset-password"
	RouteProfile         = "/auth/profile"
	RouteUsers           = "/users"
)

// # HTTP Headers

const (
	HeaderAuthorization  = "Authorization"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderContentType    = "Content-Type"
	HeaderXRequestID     = "X-Request-ID"
	HeaderUserAgent      = "User-Agent"

	ContentTypeJSON = "application/json; charset=utf-8"
	BearerPrefix    = "Bearer "
)

// # Timing

const (
	// DefaultAPITimeout bounds every remote API call when no config is supplied.
	DefaultAPITimeout = 15 * time.Second

	// StartupTimeout bounds connecting to storage backends at process start.
	StartupTimeout = 30 * time.Second

	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes = 1 << 20
)

// # Development Server

const (
	// DevServerAddr is where `tripora dev-api` listens by default.
	DevServerAddr = "127.0.0.1:8088"

	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// ShutdownTimeout is how long in-flight requests get to complete.
	ShutdownTimeout = 10 * time.Second
)

// # JSON Field Identifiers

const (
	FieldToken   = "token"
	FieldUser    = "user"
	FieldMessage = "message"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
)

// # Storage Namespacing

const (
	// RedisKeyPrefix scopes client keys inside a shared Redis database.
	RedisKeyPrefix = "tripora:kv:"

	// KVTable is the PostgreSQL table backing the postgres storage driver.
	KVTable = "client_kv"
)
