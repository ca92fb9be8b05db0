// Package module wires the result cache into the service graph
package module

import (
	"time"

	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/modkit/repokit"
	"birdspot/internal/platform/config"
	"birdspot/internal/services/resultcache/domain"
	"birdspot/internal/services/resultcache/repo"
	"birdspot/internal/services/resultcache/service"
)

// Options holds CACHE_* settings
type Options struct {
	Backend domain.Backend
	MemoTTL time.Duration
}

// FromConfig reads CACHE_BACKEND and CACHE_MEMO_TTL
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CACHE_")
	return Options{
		Backend: domain.Backend(cc.MayEnum("BACKEND", string(domain.BackendPG), string(domain.BackendPG), string(domain.BackendRedis))),
		MemoTTL: cc.MayDuration("MEMO_TTL", 0),
	}
}

// Ports exposed by the result cache module
type Ports struct {
	Cache domain.Port
	Admin domain.AdminPort
}

// Module implements the result cache module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the module over the configured backend
func New(deps modkit.Deps, opts Options) *Module {
	var r repo.Repo
	switch opts.Backend {
	case domain.BackendRedis:
		r = repo.NewRedis(deps.RDS)
	default:
		opts.Backend = domain.BackendPG
		r = repokit.MustBind(repo.NewPG(), deps.PG)
	}
	svc := service.New(r, service.Config{Backend: opts.Backend, MemoTTL: opts.MemoTTL})

	m := &Module{deps: deps}
	m.ports = Ports{Cache: svc, Admin: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "resultcache" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; admin routes live in the api admin module
func (m *Module) MountRoutes(httpkit.Router) {}
