package pg

import (
	"context"
	"strings"

	"birdspot/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement regardless of the root level
// slow statements go out at warn
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", redactArgs(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds whitespace runs into one space
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// redactArgs swaps large byte and string args for their length; payload upserts would flood the log
func redactArgs(a any) any {
	args, ok := a.([]any)
	if !ok {
		return a
	}
	out := make([]any, len(args))
	for i, v := range args {
		switch x := v.(type) {
		case []byte:
			out[i] = zerolog.Dict().Int("bytes", len(x))
		case string:
			if len(x) > 256 {
				out[i] = x[:64] + "..."
				continue
			}
			out[i] = x
		default:
			out[i] = v
		}
	}
	return out
}
