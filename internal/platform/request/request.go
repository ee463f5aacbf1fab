// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests
received by the fake remote API.

It abstracts away the router's parameter extraction and body decoding, so
handlers report malformed input the same way the real API does.
*/
package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/ctxutil"
)

// DecodeJSON reads the request body and decodes it into target.
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return apperr.ValidationError("Invalid JSON body")
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// UserID returns the authenticated subject, or "" when the route is public.
func UserID(request *http.Request) string {
	return ctxutil.GetUserID(request.Context())
}
