package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"birdspot/internal/platform/config"
	"birdspot/internal/platform/metrics"
	"birdspot/internal/platform/net/middleware"
)

// StackOptions tunes the shared middleware stack
type StackOptions struct {
	Timeout      time.Duration
	SlowRequest  time.Duration
	MaxBodyBytes int64
	CORSOrigins  []string
	Subjects     middleware.SubjectParser
	Metrics      *metrics.Metrics
}

// StackFromConfig reads API_* knobs (timeouts, body cap, CORS origins)
func StackFromConfig(cfg config.Conf) StackOptions {
	c := cfg.Prefix("API_")
	return StackOptions{
		Timeout:      c.MayDuration("REQUEST_TIMEOUT", 90*time.Second),
		SlowRequest:  c.MayDuration("SLOW_REQUEST", 10*time.Second),
		MaxBodyBytes: c.MayInt64("MAX_BODY_BYTES", 25<<20),
		CORSOrigins:  c.MayCSV("CORS_ORIGINS", []string{"*"}),
	}
}

// CommonStack returns the baseline middleware every route gets
// order matters: CORS headers go on before anything can reject the request,
// and the caller is resolved before the access log reads it
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		o.Metrics.Middleware,
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Caller(o.Subjects),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: o.SlowRequest,
			Skip: []string{"/health", "/metrics"},
		}),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.MaxBody(o.MaxBodyBytes),
		middleware.Timeout(o.Timeout),
	}
}
