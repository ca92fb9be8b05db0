package pg

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	got := compact("SELECT  key,\n\tpayload\r\n FROM result_cache ")
	if got != "SELECT key, payload FROM result_cache" {
		t.Fatalf("compact = %q", got)
	}
}

func TestTracerLevels(t *testing.T) {
	var buf bytes.Buffer
	root := zerolog.New(&buf).Level(zerolog.ErrorLevel)
	tr := Tracer(root)

	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 1", Args: []any{1}})
	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT pg_sleep(1)", Slow: true, Err: errors.New("boom")})

	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected info and warn lines, got %s", out)
	}
	if !strings.Contains(out, `"component":"pg"`) {
		t.Fatalf("missing component field: %s", out)
	}
}

func TestRedactArgs(t *testing.T) {
	long := strings.Repeat("x", 300)
	out := redactArgs([]any{"short", long, 7}).([]any)
	if out[0] != "short" || out[2] != 7 {
		t.Fatalf("unexpected passthrough: %#v", out)
	}
	if s, _ := out[1].(string); len(s) != 67 {
		t.Fatalf("long string not truncated: %d", len(s))
	}
	if redactArgs("plain") != "plain" {
		t.Fatal("non slice args should pass through")
	}
}

type recorder struct{ events []QueryEvent }

func (r *recorder) OnQuery(_ context.Context, ev QueryEvent) { r.events = append(r.events, ev) }

func TestTraceMarksSlow(t *testing.T) {
	rec := &recorder{}
	p := &PG{tracer: rec, slowUS: 0}
	p.Trace(context.Background(), "SELECT 1", nil, time.Now(), nil)

	off := &PG{tracer: rec, slowUS: -1000}
	off.Trace(context.Background(), "SELECT 2", nil, time.Now().Add(-time.Hour), errors.New("boom"))

	var none *PG
	none.Trace(context.Background(), "SELECT 3", nil, time.Now(), nil)

	if len(rec.events) != 2 {
		t.Fatalf("events = %d", len(rec.events))
	}
	if !rec.events[0].Slow {
		t.Fatal("threshold 0 should mark every statement slow")
	}
	if rec.events[1].Slow || rec.events[1].Err == nil {
		t.Fatalf("negative threshold event = %+v", rec.events[1])
	}
}
