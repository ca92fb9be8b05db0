package sink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"birdspot/internal/platform/metrics"
	"birdspot/internal/platform/store"
	"birdspot/internal/services/usage/domain"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeCH struct {
	mu      sync.Mutex
	batches [][][]any
	tables  []string
	err     error
	flushed chan int
}

func newFakeCH() *fakeCH { return &fakeCH{flushed: make(chan int, 16)} }

func (f *fakeCH) Exec(context.Context, string, ...any) error { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeCH) Close() error { return nil }

func (f *fakeCH) Insert(_ context.Context, table string, cols []string, rows [][]any) error {
	f.mu.Lock()
	f.tables = append(f.tables, table)
	f.batches = append(f.batches, rows)
	err := f.err
	f.mu.Unlock()
	f.flushed <- len(rows)
	if len(cols) != len(Columns) {
		return errors.New("column mismatch")
	}
	return err
}

func entry(i int) domain.Entry {
	return domain.Entry{
		ID:          uuid.New(),
		Identity:    "alice",
		Endpoint:    "/api/identify/photo",
		Fingerprint: "photo_x",
		InputBytes:  int64(i),
		CreatedAt:   time.Date(2026, 5, 1, 0, 0, i, 0, time.UTC),
	}
}

func waitFlush(t *testing.T, f *fakeCH) int {
	t.Helper()
	select {
	case n := <-f.flushed:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no flush")
		return 0
	}
}

func TestFlushOnBatchSize(t *testing.T) {
	f := newFakeCH()
	s := NewClickHouse(f, Options{BatchSize: 3, FlushEvery: time.Hour}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { _ = s.Run(ctx); close(done) }()

	for i := 0; i < 3; i++ {
		s.Enqueue(entry(i))
	}
	if n := waitFlush(t, f); n != 3 {
		t.Fatalf("flushed %d rows", n)
	}
	cancel()
	<-done

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tables[0] != Table {
		t.Fatalf("table = %q", f.tables[0])
	}
	row := f.batches[0][0]
	if len(row) != len(Columns) || row[1] != "alice" || row[3] != "/api/identify/photo" {
		t.Fatalf("row = %v", row)
	}
}

func TestFlushOnTicker(t *testing.T) {
	f := newFakeCH()
	s := NewClickHouse(f, Options{BatchSize: 100, FlushEvery: 10 * time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	s.Enqueue(entry(1))
	if n := waitFlush(t, f); n != 1 {
		t.Fatalf("flushed %d rows", n)
	}
}

func TestFinalFlushOnShutdown(t *testing.T) {
	f := newFakeCH()
	s := NewClickHouse(f, Options{BatchSize: 100, FlushEvery: time.Hour}, nil)
	s.Enqueue(entry(1))
	s.Enqueue(entry(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := waitFlush(t, f); n != 2 {
		t.Fatalf("flushed %d rows", n)
	}
}

func TestDropsAreCounted(t *testing.T) {
	m, err := metrics.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	f := newFakeCH()
	f.err = errors.New("ch down")
	s := NewClickHouse(f, Options{Buffer: 2, BatchSize: 100, FlushEvery: time.Hour}, m)

	// buffer holds two; the third is dropped at enqueue time
	for i := 0; i < 3; i++ {
		s.Enqueue(entry(i))
	}
	if got := testutil.ToFloat64(m.UsageSinkDropped); got != 1 {
		t.Fatalf("dropped after enqueue = %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = s.Run(ctx)
	if got := testutil.ToFloat64(m.UsageSinkDropped); got != 3 {
		t.Fatalf("dropped after failed insert = %v", got)
	}
}

func TestNewPanicsWithoutHandle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewClickHouse(nil, Options{}, nil)
}
