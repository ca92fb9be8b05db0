// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"birdspot/internal/core/version"
	"birdspot/internal/modkit/httpkit"
	ptime "birdspot/internal/platform/time"
)

// Check probes one backend; a nil Check is reported as skipped
type Check func(context.Context) error

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Clock       ptime.Clock
	Checks      map[string]Check
	Order       []string
	Metrics     http.Handler
	Timeout     time.Duration
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	r.Get("/health", httpkit.Handle(h.health))
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
}

// HealthResponse is the liveness payload, written without the envelope
type HealthResponse struct {
	OK bool `json:"ok" example:"true"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-05-01T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"birdspot-api"`
	Started string `json:"started" example:"2026-05-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary Liveness probe
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *handlers) health(_ *http.Request) httpkit.Response {
	return httpkit.Bare(HealthResponse{OK: true})
}

// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.Timeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Now: h.deps.Clock.Now().UTC().Format(time.RFC3339)}
	for _, name := range h.deps.Order {
		c := ReadyCheck{Name: name, Status: "skipped"}
		if fn := h.deps.Checks[name]; fn != nil {
			c.Status = "ok"
			if err := fn(ctx); err != nil {
				c.Status, c.Error = "fail", err.Error()
			}
		}
		if c.Status == "fail" {
			out.Status = "fail"
		}
		out.Checks = append(out.Checks, c)
	}
	return out, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	now := h.deps.Clock.Now()
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
