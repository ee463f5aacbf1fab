// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/logger"
	"github.com/taibuivan/tripora/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckStorage pings the configured storage backend.
	CheckStorage func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       zerolog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, base *zerolog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger.Component(base, "health")}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok", "version": constants.AppVersion})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 1)
	isReady := true

	if handler.dependencies.CheckStorage != nil {
		result := checkResult{Name: "storage", IsOK: true}
		if err := handler.dependencies.CheckStorage(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isReady = false
			handler.logger.Error().Err(err).Str("dependency", "storage").Msg("readiness check failed")
		}
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	if !isReady {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		"status": status,
		"checks": results,
	})
}
