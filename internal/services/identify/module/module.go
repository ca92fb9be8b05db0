// Package module wires the identification flows into the service graph
package module

import (
	"birdspot/internal/adapters/inference"
	"birdspot/internal/core/catalog"
	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/platform/config"
	"birdspot/internal/services/identify/domain"
	"birdspot/internal/services/identify/service"
	quotadom "birdspot/internal/services/quota/domain"
	cachedom "birdspot/internal/services/resultcache/domain"
	usagedom "birdspot/internal/services/usage/domain"
)

// Options holds IDENTIFY_* switches
type Options struct {
	CanonicalCandidates bool
	CollapseInflight    bool
	TranscribeAudio     bool
}

// FromConfig reads IDENTIFY_CANONICAL_CANDIDATES, IDENTIFY_COLLAPSE_INFLIGHT and IDENTIFY_TRANSCRIBE_AUDIO
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("IDENTIFY_")
	return Options{
		CanonicalCandidates: ic.MayBool("CANONICAL_CANDIDATES", false),
		CollapseInflight:    ic.MayBool("COLLAPSE_INFLIGHT", false),
		TranscribeAudio:     ic.MayBool("TRANSCRIBE_AUDIO", false),
	}
}

// Needs are the collaborators injected with modkit.WithPorts
type Needs struct {
	Catalog  *catalog.Catalog
	Media    domain.Media
	Provider inference.Provider
	Cache    cachedom.Port
	Quota    quotadom.EnforcerPort
	Usage    usagedom.RecorderPort
}

// Ports exposed by the identify module
type Ports struct {
	Identify domain.Port
}

// Module implements the identify module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the module; every field of Needs except Catalog is required
func New(deps modkit.Deps, opts Options, o ...modkit.Option) *Module {
	b := modkit.Build(o...)
	needs, ok := b.Ports.(Needs)
	if !ok {
		panic("identify module requires Needs ports")
	}

	var tr inference.Transcriber
	if opts.TranscribeAudio {
		t, ok := needs.Provider.(inference.Transcriber)
		if !ok {
			panic("identify: IDENTIFY_TRANSCRIBE_AUDIO needs a provider that can transcribe")
		}
		tr = t
	}

	svc := service.New(service.Config{
		Catalog:     needs.Catalog,
		Media:       needs.Media,
		Cache:       needs.Cache,
		Quota:       needs.Quota,
		Usage:       needs.Usage,
		Provider:    needs.Provider,
		Transcriber: tr,
		Metrics:     deps.Metrics,
		Canonical:   opts.CanonicalCandidates,
		Collapse:    opts.CollapseInflight,
	})
	deps.Log.Info().
		Int("catalog", needs.Catalog.Len()).
		Str("model", needs.Provider.Model()).
		Bool("collapse", opts.CollapseInflight).
		Bool("transcribe", tr != nil).
		Msg("identify flows ready")

	return &Module{deps: deps, ports: Ports{Identify: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "identify" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; the api identify module serves the flows
func (m *Module) MountRoutes(httpkit.Router) {}
