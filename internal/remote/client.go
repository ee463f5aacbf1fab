// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package remote is the HTTP client for the Tripora REST API.

The API contract is fixed and external: paths, request fields and response
shapes are reproduced as the server expects them. This package turns every
exchange into either a decoded payload or an [apperr.AppError]:

  - No response (connectivity, timeout, rate limiter abort): NETWORK_ERROR.
  - 401/403: UNAUTHORIZED. 400/422: VALIDATION_ERROR.
  - Other non-2xx: BUSINESS_ERROR with the server's message.
  - 2xx with an unparsable body or missing promised fields: CONTRACT_ERROR.

# Architecture

Every request is bounded by a per-request timeout and a client-side token
bucket, and carries X-Request-ID, Accept-Language and, for protected routes,
the bearer token. Bodies and tokens are never logged.
*/
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/ctxutil"
	"github.com/taibuivan/tripora/internal/platform/logger"
	"github.com/taibuivan/tripora/pkg/uuid"
)

// # Contracts

// LanguageTagger supplies the display language sent as Accept-Language.
// The settings resolver satisfies it.
type LanguageTagger interface {
	LanguageTag() language.Tag
}

// Options configures a [Client].
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int

	// HTTPClient overrides the transport (tests). Its Timeout is ignored.
	HTTPClient *http.Client

	// Language is optional; without it no Accept-Language is sent.
	Language LanguageTagger
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	http     *http.Client
	baseURL  string
	timeout  time.Duration
	limiter  *rate.Limiter
	language LanguageTagger
	logger   zerolog.Logger
}

// New constructs a [Client].
func New(opts Options, base *zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultAPITimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1))
	}

	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		timeout:  timeout,
		limiter:  limiter,
		language: opts.Language,
		logger:   logger.Component(base, "remote"),
	}
}

// NewFromConfig constructs a [Client] from the loaded configuration.
func NewFromConfig(cfg *config.Config, lang LanguageTagger, base *zerolog.Logger) *Client {
	return New(Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
		Language:  lang,
	}, base)
}

// # Transport

// call performs one request and returns the decoded JSON object body.
//
// A 2xx with an empty body decodes to an empty map.
func (c *Client) call(ctx context.Context, method, path, bearer string, body any) (map[string]any, error) {
	requestID := uuid.New()
	log := c.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()

	// Block on the token bucket but never past the caller's deadline.
	if err := c.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("rate_limiter_aborted")
		return nil, apperr.Network(fmt.Errorf("remote: rate limiter: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = ctxutil.WithRequestID(ctx, requestID)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("remote: encode %s body: %w", path, err))
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("remote: build request: %w", err))
	}

	c.decorate(request, requestID, bearer, body != nil)

	startTime := time.Now()
	response, err := c.http.Do(request)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(startTime)).Msg("remote_unreachable")
		return nil, apperr.Network(fmt.Errorf("remote: %s %s: %w", method, path, err))
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, constants.MaxResponseBytes))
	if err != nil {
		log.Warn().Err(err).Msg("remote_body_read_failed")
		return nil, apperr.Network(fmt.Errorf("remote: read body: %w", err))
	}

	log.Debug().
		Int("status", response.StatusCode).
		Int64("latency_ms", time.Since(startTime).Milliseconds()).
		Msg("remote_call_finished")

	decoded, decodeErr := decodeObject(raw)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, apperr.FromStatus(response.StatusCode, serverMessage(decoded), "")
	}

	if decodeErr != nil {
		return nil, apperr.Contract(fmt.Errorf("remote: %s %s: %w", method, path, decodeErr))
	}

	return decoded, nil
}

// decorate sets the headers every call carries.
func (c *Client) decorate(request *http.Request, requestID, bearer string, hasBody bool) {
	header := request.Header
	header.Set("Accept", "application/json")
	header.Set(constants.HeaderXRequestID, requestID)
	header.Set(constants.HeaderUserAgent, constants.AppName+"/"+constants.AppVersion)

	if hasBody {
		header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if c.language != nil {
		header.Set(constants.HeaderAcceptLanguage, c.language.LanguageTag().String())
	}
	if bearer != "" {
		header.Set(constants.HeaderAuthorization, constants.BearerPrefix+bearer)
	}
}

// # Decoding

var errNotObject = errors.New("response body is not a JSON object")

// decodeObject parses raw as a JSON object. An empty body is an empty object.
// Numbers stay [json.Number] so large IDs survive the round trip to storage.
func decodeObject(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var decoded map[string]any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotObject, err)
	}
	if decoded == nil {
		return nil, errNotObject
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", errNotObject)
	}
	return decoded, nil
}

// serverMessage extracts the user-visible text from an error body.
//
// The API uses "message"; some handlers reply with "error", and proxied
// failures nest it under "data".
func serverMessage(body map[string]any) string {
	if body == nil {
		return ""
	}
	if msg, ok := body[constants.FieldMessage].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := body[constants.FieldError].(string); ok && msg != "" {
		return msg
	}
	if nested, ok := body["data"].(map[string]any); ok {
		return serverMessage(nested)
	}
	return ""
}
