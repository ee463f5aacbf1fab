// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api serves the in-process fake of the remote REST API over a real
listener, so the CLI (or a device emulator) can be pointed at it during
development with TRIPORA_API_BASE_URL.

Architecture:

  - The fake's chi router is mounted at the root, keeping the remote paths intact.
  - /health and /ready are added next to it for scripts that wait on the server.
  - Shutdown is graceful and bounded.
*/
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/logger"
)

// # Server Definitions

// Server wraps the router and the [http.Server].
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// Handlers groups what the server exposes.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Remote is the fake REST API.
	Remote http.Handler
}

// # Server Initialization

// NewServer registers the probes and mounts the fake API on addr.
func NewServer(addr string, base *zerolog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Remote API
	r.Mount("/", h.Remote)

	return &Server{
		logger: logger.Component(base, "dev_api"),
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the full router, probes included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// # Server Lifecycle

// Serve accepts connections on listener until the server is shut down.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("server starting")
	return s.httpServer.Serve(listener)
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
