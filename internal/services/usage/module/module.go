// Package module wires the usage log into the service graph
package module

import (
	"context"
	"time"

	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/modkit/repokit"
	"birdspot/internal/platform/config"
	"birdspot/internal/services/usage/domain"
	"birdspot/internal/services/usage/repo"
	"birdspot/internal/services/usage/service"
	"birdspot/internal/services/usage/sink"
)

// Options holds USAGE_SINK_* settings
type Options struct {
	Sink sink.Options
}

// FromConfig reads the clickhouse sink batching knobs
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("USAGE_SINK_")
	return Options{Sink: sink.Options{
		Buffer:     sc.MayInt("BUFFER", 1024),
		BatchSize:  sc.MayInt("BATCH_SIZE", 200),
		FlushEvery: sc.MayDuration("FLUSH_EVERY", 2*time.Second),
	}}
}

// Ports exposed by the usage module
type Ports struct {
	Recorder domain.RecorderPort
	Reader   domain.ReaderPort
}

// Module implements the usage module
type Module struct {
	deps  modkit.Deps
	ports Ports
	sink  *sink.ClickHouse
}

// New constructs the module; the clickhouse mirror is enabled when deps.CH is set
func New(deps modkit.Deps, opts Options) *Module {
	m := &Module{deps: deps}
	var sk domain.Sink
	if deps.CH != nil {
		m.sink = sink.NewClickHouse(deps.CH, opts.Sink, deps.Metrics)
		sk = m.sink
	}
	svc := service.New(repokit.MustBind(repo.NewPG(), deps.PG), sk, deps.Clock)
	m.ports = Ports{Recorder: svc, Reader: svc}
	return m
}

// Run drives the clickhouse sink until ctx ends; without a sink it just waits
func (m *Module) Run(ctx context.Context) error {
	if m.sink == nil {
		<-ctx.Done()
		return nil
	}
	m.deps.Log.Info().Msg("usage clickhouse sink started")
	return m.sink.Run(ctx)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "usage" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; admin routes live in the api admin module
func (m *Module) MountRoutes(httpkit.Router) {}
