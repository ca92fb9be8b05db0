package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "birdspot/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		" fatal ":  zerolog.FatalLevel,
		"panic":    zerolog.PanicLevel,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitAndRequestChildren(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "debug",
		Format:       "json",
		Service:      "birdspot-test",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})

	Named("identify").Info().Msg("named-msg")
	ctx := WithRequest(context.Background(), "req-123", "ip:10.0.0.1")
	C(ctx).Info().Msg("ctx-msg")
	C(context.Background()).Debug().Msg("bare-msg")

	out := buf.String()
	kit.MustContain(t, out, `"component":"identify"`)
	kit.MustContain(t, out, `"request_id":"req-123"`)
	kit.MustContain(t, out, `"identity":"ip:10.0.0.1"`)
	kit.MustContain(t, out, `"service":"birdspot-test"`)
	kit.MustContain(t, out, `"build":"test"`)
	kit.MustContain(t, out, "bare-msg")
	if strings.Count(out, "\n") != 3 {
		t.Fatalf("expected 3 lines, got:\n%s", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "birdspot" {
		t.Fatalf("FromEnv = %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample = %+v", opt)
	}
}
