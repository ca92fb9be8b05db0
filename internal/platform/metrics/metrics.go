// Package metrics holds the prometheus collectors for the identify pipeline
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "birdspot"

// Metrics contains every collector the service exports
// a nil *Metrics is valid and records nothing
type Metrics struct {
	CacheLookups      *prometheus.CounterVec
	QuotaRejections   *prometheus.CounterVec
	InferenceDuration *prometheus.HistogramVec
	InferenceErrors   *prometheus.CounterVec
	UsageSinkDropped  prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New registers the collectors on registry; a nil registry gets a fresh one with go and process collectors
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := &Metrics{registry: registry}
	m.initMetrics()
	for _, c := range m.collectors() {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Result cache lookups by flow and outcome.",
	}, []string{"flow", "result"})

	m.QuotaRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quota_rejections_total",
		Help:      "Requests rejected by the daily quota, by identity kind.",
	}, []string{"kind"})

	m.InferenceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "inference_duration_seconds",
		Help:      "Latency of inference provider calls.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
	}, []string{"flow"})

	m.InferenceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inference_errors_total",
		Help:      "Failed inference provider calls by flow.",
	}, []string{"flow"})

	m.UsageSinkDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "usage_sink_dropped_total",
		Help:      "Usage entries the analytics sink could not deliver.",
	})

	m.HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	m.HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CacheLookups, m.QuotaRejections, m.InferenceDuration, m.InferenceErrors,
		m.UsageSinkDropped, m.HTTPRequests, m.HTTPDuration,
	}
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheLookup counts a hit or miss for flow
func (m *Metrics) CacheLookup(flow string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(flow, result).Inc()
}

// QuotaRejected counts a rejection; explicit is false for ip identities
func (m *Metrics) QuotaRejected(explicit bool) {
	if m == nil {
		return
	}
	kind := "ip"
	if explicit {
		kind = "user"
	}
	m.QuotaRejections.WithLabelValues(kind).Inc()
}

// ObserveInference records one provider call
func (m *Metrics) ObserveInference(flow string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.InferenceDuration.WithLabelValues(flow).Observe(d.Seconds())
	if err != nil {
		m.InferenceErrors.WithLabelValues(flow).Inc()
	}
}

// SinkDropped counts n usage entries lost by the analytics sink
func (m *Metrics) SinkDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UsageSinkDropped.Add(float64(n))
}

// Middleware records request counts and latency by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
		m.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusWriter) Unwrap() http.ResponseWriter { return s.ResponseWriter }
