// Package api assembles the HTTP service from its modules
package api

import (
	"context"

	"birdspot/internal/adapters/inference"
	"birdspot/internal/core/catalog"
	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/modkit/module"
	"birdspot/internal/modkit/swaggerkit"
	phttp "birdspot/internal/platform/net/http"

	adminmod "birdspot/internal/services/api/admin/module"
	apiidentify "birdspot/internal/services/api/identify/module"
	metamod "birdspot/internal/services/api/meta/module"
	identifydom "birdspot/internal/services/identify/domain"
	identifymod "birdspot/internal/services/identify/module"
	quotamod "birdspot/internal/services/quota/module"
	cachemod "birdspot/internal/services/resultcache/module"
	usagemod "birdspot/internal/services/usage/module"
)

// Options are the API options
type Options struct {
	Deps     modkit.Deps
	Service  string
	Catalog  *catalog.Catalog
	Media    identifydom.Media
	Provider inference.Provider

	EnableSwagger  bool
	EnableProfiler bool
}

// Mounted is the assembled module graph
type Mounted struct {
	Modules []modkit.Module
	usage   *usagemod.Module
}

// Run blocks on the background workers (the usage sink) until ctx is done
func (m *Mounted) Run(ctx context.Context) error { return m.usage.Run(ctx) }

// Mount builds every module, wires their ports and mounts the routes on r
// the common middleware stack is applied to r first, so r must not have routes yet
func Mount(r phttp.Router, opt Options) *Mounted {
	deps := opt.Deps
	cfg := deps.Cfg

	// storage backed modules first, their ports feed the flows
	cache := cachemod.New(deps, cachemod.FromConfig(cfg))
	quota := quotamod.New(deps, quotamod.FromConfig(cfg))
	usage := usagemod.New(deps, usagemod.FromConfig(cfg))

	cachePorts := module.MustPortsOf[cachemod.Ports](cache)
	quotaPorts := module.MustPortsOf[quotamod.Ports](quota)
	usagePorts := module.MustPortsOf[usagemod.Ports](usage)

	identify := identifymod.New(deps, identifymod.FromConfig(cfg), modkit.WithPorts(identifymod.Needs{
		Catalog:  opt.Catalog,
		Media:    opt.Media,
		Provider: opt.Provider,
		Cache:    cachePorts.Cache,
		Quota:    quotaPorts.Enforcer,
		Usage:    usagePorts.Recorder,
	}))

	adminOpts := adminmod.FromConfig(cfg)
	mods := []modkit.Module{
		cache,
		quota,
		usage,
		identify,
		metamod.New(deps, opt.Service),
		apiidentify.New(deps, apiidentify.FromConfig(cfg), modkit.WithPorts(apiidentify.Ports{
			Identify: module.MustPortsOf[identifymod.Ports](identify).Identify,
		})),
		adminmod.New(deps, adminOpts, modkit.WithPorts(adminmod.Ports{
			Usage: usagePorts.Reader,
			Quota: quotaPorts.Admin,
			Cache: cachePorts.Admin,
		})),
	}

	stack := httpkit.StackFromConfig(cfg)
	stack.Subjects = httpkit.SubjectsFromSecret(cfg.MayString("AUTH_JWT_SECRET", ""))
	stack.Metrics = deps.Metrics
	r.Use(httpkit.CommonStack(stack)...)

	swaggerkit.Mount(r, cfg, opt.EnableSwagger)
	httpkit.Protected(r, adminOpts.Token, func(pr httpkit.Router) {
		phttp.MountProfiler(pr, "/debug", opt.EnableProfiler)
	})

	for _, m := range mods {
		m.MountRoutes(r)
		deps.Log.Debug().Str("module", m.Name()).Msg("module mounted")
	}
	return &Mounted{Modules: mods, usage: usage}
}
