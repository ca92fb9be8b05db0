// Package sink mirrors usage entries into clickhouse in batches
package sink

import (
	"context"
	"time"

	"birdspot/internal/platform/logger"
	"birdspot/internal/platform/metrics"
	"birdspot/internal/platform/store"
	"birdspot/internal/services/usage/domain"
)

// Table is the clickhouse destination
const Table = "usage_logs"

// Columns is the insert order of every row
var Columns = []string{"id", "identity", "ip", "endpoint", "fingerprint", "cached", "model", "input_bytes", "created_at"}

// Options tunes batching
type Options struct {
	Buffer     int
	BatchSize  int
	FlushEvery time.Duration
	// FlushTimeout bounds the final flush after Run's context ends
	FlushTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Buffer <= 0 {
		o.Buffer = 1024
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 200
	}
	if o.FlushEvery <= 0 {
		o.FlushEvery = 2 * time.Second
	}
	if o.FlushTimeout <= 0 {
		o.FlushTimeout = 5 * time.Second
	}
	return o
}

// ClickHouse buffers entries and writes them from a single Run loop
type ClickHouse struct {
	ch      store.Clickhouse
	opts    Options
	in      chan domain.Entry
	metrics *metrics.Metrics
	log     *logger.Logger
}

var _ domain.Sink = (*ClickHouse)(nil)

// NewClickHouse builds a sink; nothing is written until Run is started
func NewClickHouse(ch store.Clickhouse, opts Options, m *metrics.Metrics) *ClickHouse {
	if ch == nil {
		panic("usage sink requires a clickhouse handle")
	}
	opts = opts.withDefaults()
	return &ClickHouse{
		ch:      ch,
		opts:    opts,
		in:      make(chan domain.Entry, opts.Buffer),
		metrics: m,
		log:     logger.Named("usage_sink"),
	}
}

// Enqueue implements domain.Sink; a full buffer drops the entry
func (s *ClickHouse) Enqueue(e domain.Entry) {
	select {
	case s.in <- e:
	default:
		s.metrics.SinkDropped(1)
		s.log.Warn().Str("fingerprint", e.Fingerprint).Msg("usage sink buffer full, entry dropped")
	}
}

// Run drains the buffer until ctx ends, then flushes what is left
func (s *ClickHouse) Run(ctx context.Context) error {
	t := time.NewTicker(s.opts.FlushEvery)
	defer t.Stop()

	batch := make([]domain.Entry, 0, s.opts.BatchSize)
	for {
		select {
		case <-ctx.Done():
			batch = s.drain(batch)
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FlushTimeout)
			s.flush(fctx, batch)
			cancel()
			return nil
		case e := <-s.in:
			batch = append(batch, e)
			if len(batch) >= s.opts.BatchSize {
				s.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-t.C:
			if len(batch) > 0 {
				s.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *ClickHouse) drain(batch []domain.Entry) []domain.Entry {
	for {
		select {
		case e := <-s.in:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

func (s *ClickHouse) flush(ctx context.Context, batch []domain.Entry) {
	if len(batch) == 0 {
		return
	}
	rows := make([][]any, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, []any{
			e.ID, e.Identity, e.IP, e.Endpoint, e.Fingerprint, e.Cached, e.Model, e.InputBytes, e.CreatedAt.UTC(),
		})
	}
	if err := s.ch.Insert(ctx, Table, Columns, rows); err != nil {
		s.metrics.SinkDropped(len(batch))
		s.log.Error().Err(err).Int("rows", len(batch)).Msg("usage sink insert failed")
		return
	}
	s.log.Debug().Int("rows", len(batch)).Msg("usage sink flushed")
}
