package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"birdspot/internal/modkit"
	perr "birdspot/internal/platform/errors"
	phttp "birdspot/internal/platform/net/http"
	ptime "birdspot/internal/platform/time"
	adminmod "birdspot/internal/services/api/admin/module"
	quotadom "birdspot/internal/services/quota/domain"
	quotarepo "birdspot/internal/services/quota/repo"
	quotasvc "birdspot/internal/services/quota/service"
	cacherepo "birdspot/internal/services/resultcache/repo"
	cachesvc "birdspot/internal/services/resultcache/service"
	usagedom "birdspot/internal/services/usage/domain"
	usagerepo "birdspot/internal/services/usage/repo"
	usagesvc "birdspot/internal/services/usage/service"

	"github.com/go-chi/chi/v5"
)

const token = "s3cret"

var now = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	ledger *quotarepo.Memory
	cache  *cacherepo.Memory
	usage  *usagesvc.Svc
	mux    http.Handler
}

func newHarness(t *testing.T, tok string) *harness {
	t.Helper()
	h := &harness{
		ledger: quotarepo.NewMemory(),
		cache:  cacherepo.NewMemory(),
	}
	clock := ptime.Fixed(now)
	h.usage = usagesvc.New(usagerepo.NewMemory(), nil, clock)
	quota := quotasvc.New(h.ledger, quotasvc.Config{Limits: quotadom.Limits{User: 25, IP: 100}, Clock: clock})
	cache := cachesvc.New(h.cache, cachesvc.Config{Backend: "pg"})

	m := adminmod.New(modkit.Deps{Clock: clock}, adminmod.Options{Token: tok},
		modkit.WithPorts(adminmod.Ports{Usage: h.usage, Quota: quota, Cache: cache}))
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	h.mux = mux
	return h
}

func (h *harness) do(t *testing.T, method, path, tok string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	r := httptest.NewRequest(method, path, nil)
	if tok != "" {
		r.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, r)
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestGuard(t *testing.T) {
	cases := []struct {
		name   string
		config string
		sent   string
		want   int
	}{
		{"disabled", "", token, http.StatusForbidden},
		{"missing bearer", token, "", http.StatusUnauthorized},
		{"wrong bearer", token, "nope", http.StatusUnauthorized},
		{"ok", token, token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := newHarness(t, tc.config).do(t, http.MethodGet, "/admin/cache/stats", tc.sent)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRecentUsage(t *testing.T) {
	h := newHarness(t, token)
	ctx := context.Background()
	for i, ep := range []string{"/api/identify/photo", "/api/identify/sound", "/api/validate/sound"} {
		e := usagedom.Entry{Endpoint: ep, Identity: "alice", CreatedAt: now.Add(time.Duration(i) * time.Minute)}
		if err := h.usage.Log(ctx, e); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	rec, env := h.do(t, http.MethodGet, "/admin/usage/recent?limit=2", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	data := env.Data.(map[string]any)
	logs := data["logs"].([]any)
	if len(logs) != 2 {
		t.Fatalf("logs = %d", len(logs))
	}
	if first := logs[0].(map[string]any); first["endpoint"] != "/api/validate/sound" {
		t.Fatalf("newest first violated: %v", first)
	}

	rec, env = h.do(t, http.MethodGet, "/admin/usage/recent?limit=abc", token)
	if rec.Code != http.StatusBadRequest || env.Code != perr.ErrorCodeValidation {
		t.Fatalf("bad limit = %d %+v", rec.Code, env)
	}
}

func TestRecentEmptyIsList(t *testing.T) {
	_, env := newHarness(t, token).do(t, http.MethodGet, "/admin/usage/recent", token)
	data := env.Data.(map[string]any)
	if logs, ok := data["logs"].([]any); !ok || len(logs) != 0 {
		t.Fatalf("logs = %v", data["logs"])
	}
}

func TestQuotaUsageAndReset(t *testing.T) {
	h := newHarness(t, token)
	ctx := context.Background()
	for range 3 {
		if _, err := h.ledger.Increment(ctx, "ip:203.0.113.9", "2026-05-01"); err != nil {
			t.Fatal(err)
		}
	}

	_, env := h.do(t, http.MethodGet, "/admin/quota/ip:203.0.113.9", token)
	data := env.Data.(map[string]any)
	if data["count"] != float64(3) || data["limit"] != float64(100) || data["day"] != "2026-05-01" {
		t.Fatalf("usage = %v", data)
	}

	rec, _ := h.do(t, http.MethodDelete, "/admin/quota/ip:203.0.113.9?day=2026-05-01", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if n, _ := h.ledger.Count(ctx, "ip:203.0.113.9", "2026-05-01"); n != 0 {
		t.Fatalf("count after reset = %d", n)
	}

	rec, env = h.do(t, http.MethodGet, "/admin/quota/alice?day=05/01/2026", token)
	if rec.Code != http.StatusBadRequest || env.Code != perr.ErrorCodeValidation {
		t.Fatalf("bad day = %d %+v", rec.Code, env)
	}
}

func TestCacheStatsAndDelete(t *testing.T) {
	h := newHarness(t, token)
	ctx := context.Background()
	if err := h.cache.Set(ctx, "photo:abc", json.RawMessage(`{"notes":"x"}`)); err != nil {
		t.Fatal(err)
	}

	_, env := h.do(t, http.MethodGet, "/admin/cache/stats", token)
	if data := env.Data.(map[string]any); data["entries"] != float64(1) || data["backend"] != "pg" {
		t.Fatalf("stats = %v", data)
	}

	if rec, _ := h.do(t, http.MethodDelete, "/admin/cache/photo:abc", token); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec, env := h.do(t, http.MethodDelete, "/admin/cache/photo:abc", token)
	if rec.Code != http.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("second delete = %d %+v", rec.Code, env)
	}
}

func TestNewPanicsWithoutPorts(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	adminmod.New(modkit.Deps{}, adminmod.Options{Token: token})
}
