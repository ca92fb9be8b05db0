// Package pg opens the pgx pool behind the store and traces statements
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// SlowMs marks statements at or above this duration as slow, negative disables
	SlowMs int
	// AppName is reported as application_name to the server
	AppName string
	Tracer  QueryTracer
}

// PG is the opened pool plus its tracing settings
type PG struct {
	Pool   *pgxpool.Pool
	tracer QueryTracer
	slowUS int64
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and builds the pool; it does not wait for the server
func Open(ctx context.Context, cfg Config) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, tracer: cfg.Tracer, slowUS: int64(cfg.SlowMs) * 1000}, nil
}

// Trace reports a finished statement that started at start
func (p *PG) Trace(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if p == nil || p.tracer == nil {
		return
	}
	us := time.Since(start).Microseconds()
	p.tracer.OnQuery(ctx, QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      p.slowUS >= 0 && us >= p.slowUS,
	})
}

// Close releases the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
