// Package module wires the quota ledger into the service graph
package module

import (
	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/modkit/repokit"
	"birdspot/internal/platform/config"
	"birdspot/internal/services/quota/domain"
	"birdspot/internal/services/quota/repo"
	"birdspot/internal/services/quota/service"
)

// Options holds QUOTA_* settings
type Options struct {
	Backend domain.Backend
	Mode    domain.Mode
	Limits  domain.Limits
}

// FromConfig reads QUOTA_BACKEND, QUOTA_MODE and the daily limits
func FromConfig(cfg config.Conf) Options {
	qc := cfg.Prefix("QUOTA_")
	return Options{
		Backend: domain.Backend(qc.MayEnum("BACKEND", string(domain.BackendPG), string(domain.BackendPG), string(domain.BackendRedis))),
		Mode: domain.Mode(qc.MayEnum("MODE", string(domain.ModeCheckThenIncrement),
			string(domain.ModeCheckThenIncrement), string(domain.ModeAtomic))),
		Limits: domain.Limits{
			User: qc.MayInt("DAILY_LIMIT_USER", 25),
			IP:   qc.MayInt("DAILY_LIMIT_IP", 100),
		},
	}
}

// Ports exposed by the quota module
type Ports struct {
	Enforcer domain.EnforcerPort
	Admin    domain.AdminPort
}

// Module implements the quota module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the module over the configured backend
func New(deps modkit.Deps, opts Options) *Module {
	var l domain.Ledger
	switch opts.Backend {
	case domain.BackendRedis:
		l = repo.NewRedis(deps.RDS)
	default:
		l = repokit.MustBind(repo.NewPG(), deps.PG)
	}
	svc := service.New(l, service.Config{
		Mode:    opts.Mode,
		Limits:  opts.Limits,
		Clock:   deps.Clock,
		Metrics: deps.Metrics,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Enforcer: svc, Admin: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "quota" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; admin routes live in the api admin module
func (m *Module) MountRoutes(httpkit.Router) {}
