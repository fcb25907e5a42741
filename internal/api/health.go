// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/farmreg/internal/platform/respond"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthDependencies holds the dependency probes for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool. A failure makes the service unready.
	CheckDatabase HealthCheck

	// CheckSessionStore pings Redis. The session store falls back to memory,
	// so a failure only reports the service as degraded.
	CheckSessionStore HealthCheck
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name     string `json:"name"`
	IsOK     bool   `json:"ok"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

/*
Readiness handles GET /ready.

Response:
  - 200: "ready", or "degraded" when only non-critical checks fail
  - 503: "unavailable" when PostgreSQL is unreachable
*/
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	results = handler.run(request.Context(), results, "postgres", true, handler.dependencies.CheckDatabase)
	results = handler.run(request.Context(), results, "redis", false, handler.dependencies.CheckSessionStore)

	status := "ready"
	for _, result := range results {
		if result.IsOK {
			continue
		}
		if result.Critical {
			status = "unavailable"
			break
		}
		status = "degraded"
	}

	body := map[string]any{"status": status, "checks": results}
	if status == "unavailable" {
		respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{Data: body})
		return
	}
	respond.OK(writer, body)
}

func (handler *healthHandler) run(ctx context.Context, results []checkResult, name string, critical bool, check HealthCheck) []checkResult {
	if check == nil {
		return results
	}

	result := checkResult{Name: name, IsOK: true, Critical: critical}
	if err := check(ctx); err != nil {
		result.IsOK = false
		result.Error = err.Error()

		level := slog.LevelWarn
		if critical {
			level = slog.LevelError
		}
		handler.logger.Log(ctx, level, "readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
	}
	return append(results, result)
}
