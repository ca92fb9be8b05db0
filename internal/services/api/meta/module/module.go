// Package module wires the meta endpoints (health, readiness, version, metrics)
package module

import (
	"context"

	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/platform/store"
	metahttp "birdspot/internal/services/api/meta/http"
)

// Module implements the meta module
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	hd    metahttp.Deps
}

// New constructs a meta module mounted at the root
func New(deps modkit.Deps, service string, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta")}, opts...)...)

	hd := metahttp.Deps{
		ServiceName: service,
		StartedAt:   deps.Clock.Now(),
		Clock:       deps.Clock,
		Order:       []string{"pg", "ch", "redis"},
		Checks:      map[string]metahttp.Check{},
	}
	if p, ok := deps.PG.(store.Pinger); ok {
		hd.Checks["pg"] = p.Ping
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		hd.Checks["ch"] = p.Ping
	}
	if deps.RDS != nil {
		rds := deps.RDS
		hd.Checks["redis"] = func(ctx context.Context) error { return rds.Ping(ctx).Err() }
	}
	if deps.Metrics != nil {
		hd.Metrics = deps.Metrics.Handler()
	}
	return &Module{deps: deps, built: b, hd: hd}
}

// MountRoutes mounts the meta routes
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.hd) })
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns nil; meta exposes nothing
func (m *Module) Ports() any { return nil }
