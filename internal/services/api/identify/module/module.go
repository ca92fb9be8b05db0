// Package module mounts the identify endpoints under /api
package module

import (
	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/platform/config"
	"birdspot/internal/platform/net/middleware"
	idhttp "birdspot/internal/services/api/identify/http"
	"birdspot/internal/services/identify/domain"
)

// Options holds FRONTEND_* settings
type Options struct {
	RequireKey bool
	Key        string
}

// FromConfig reads FRONTEND_REQUIRE_API_KEY and FRONTEND_API_KEY
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("FRONTEND_")
	return Options{
		RequireKey: fc.MayBool("REQUIRE_API_KEY", false),
		Key:        fc.MayString("API_KEY", ""),
	}
}

// Ports declares the injected identify flows
type Ports struct {
	Identify domain.Port
}

// Module implements the api identify module
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	svc   domain.Port
}

// New constructs the module; the identify port must be injected with modkit.WithPorts
func New(deps modkit.Deps, opts Options, o ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("api-identify"),
		modkit.WithPrefix("/api"),
		modkit.WithMiddlewares(middleware.FrontendKey(opts.RequireKey, opts.Key)),
	}, o...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Identify == nil {
		panic("api identify module requires the Identify port (from services/identify)")
	}
	if opts.RequireKey && opts.Key == "" {
		deps.Log.Warn().Msg("FRONTEND_REQUIRE_API_KEY is set without FRONTEND_API_KEY, every upload will be rejected")
	}
	return &Module{deps: deps, built: b, svc: p.Identify}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { idhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns nil; this module only consumes ports
func (m *Module) Ports() any { return nil }
