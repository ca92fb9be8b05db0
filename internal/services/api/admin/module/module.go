// Package module mounts the operator endpoints under /admin behind a static bearer
package module

import (
	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/platform/config"
	adminhttp "birdspot/internal/services/api/admin/http"
	quotadom "birdspot/internal/services/quota/domain"
	cachedom "birdspot/internal/services/resultcache/domain"
	usagedom "birdspot/internal/services/usage/domain"
)

// Options holds the admin token; an empty token answers 403 on every route
type Options struct {
	Token string
}

// FromConfig reads ADMIN_TOKEN
func FromConfig(cfg config.Conf) Options {
	return Options{Token: cfg.MayString("ADMIN_TOKEN", "")}
}

// Ports declares the injected operator surfaces
type Ports struct {
	Usage usagedom.ReaderPort
	Quota quotadom.AdminPort
	Cache cachedom.AdminPort
}

// Module implements the admin module
type Module struct {
	built modkit.Built
	opts  Options
	hd    adminhttp.Deps
}

// New constructs the module; all three ports must be injected with modkit.WithPorts
func New(deps modkit.Deps, opts Options, o ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("api-admin"),
		modkit.WithPrefix("/admin"),
	}, o...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Usage == nil || p.Quota == nil || p.Cache == nil {
		panic("admin module requires Usage, Quota and Cache ports")
	}
	if opts.Token == "" {
		deps.Log.Info().Msg("ADMIN_TOKEN is empty, /admin routes are disabled")
	}
	return &Module{
		built: b,
		opts:  opts,
		hd:    adminhttp.Deps{Usage: p.Usage, Quota: p.Quota, Cache: p.Cache},
	}
}

// MountRoutes mounts the guarded admin routes
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		httpkit.Protected(rr, m.opts.Token, func(pr httpkit.Router) { adminhttp.Register(pr, m.hd) })
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns nil; this module only consumes ports
func (m *Module) Ports() any { return nil }
