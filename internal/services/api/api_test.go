package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"birdspot/internal/adapters/inference"
	"birdspot/internal/modkit"
	"birdspot/internal/platform/config"
	phttp "birdspot/internal/platform/net/http"
	"birdspot/internal/platform/store"
	ptime "birdspot/internal/platform/time"
	"birdspot/internal/services/api"

	"github.com/go-chi/chi/v5"
)

// fakePG satisfies the TxRunner seam; nothing in these tests reaches a query
type fakePG struct{ store.TxRunner }

func (fakePG) Ping(context.Context) error { return nil }

type fakeMedia struct{}

func (fakeMedia) Photo(_ context.Context, b []byte) ([]byte, error)       { return b, nil }
func (fakeMedia) Trim(_ context.Context, b []byte) ([]byte, error)        { return b, nil }
func (fakeMedia) Spectrogram(_ context.Context, b []byte) ([]byte, error) { return b, nil }

type fakeProvider struct{}

func (fakeProvider) Infer(context.Context, inference.Request) (map[string]any, error) {
	return map[string]any{}, nil
}
func (fakeProvider) Model() string { return "fake" }

func mount(t *testing.T) (http.Handler, *api.Mounted) {
	t.Helper()
	return mountWith(t, "", false)
}

func mountWith(t *testing.T, token string, profiler bool) (http.Handler, *api.Mounted) {
	t.Helper()
	t.Setenv("TAPI_ADMIN_TOKEN", token)
	mux := chi.NewRouter()
	m := api.Mount(phttp.AdaptChi(mux), api.Options{
		Deps: modkit.Deps{
			Cfg:   config.New().Prefix("TAPI_"),
			PG:    fakePG{},
			Clock: ptime.Fixed(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
		},
		Service:       "birdspot-api",
		Media:         fakeMedia{},
		Provider:      fakeProvider{},
		EnableSwagger:  true,
		EnableProfiler: profiler,
	})
	return mux, m
}

func TestMountWiresEveryModule(t *testing.T) {
	_, m := mount(t)
	want := []string{"resultcache", "quota", "usage", "identify", "meta", "api-identify", "api-admin"}
	if len(m.Modules) != len(want) {
		t.Fatalf("modules = %d", len(m.Modules))
	}
	for i, name := range want {
		if m.Modules[i].Name() != name {
			t.Fatalf("module %d = %q, want %q", i, m.Modules[i].Name(), name)
		}
	}
}

func TestMountedRoutes(t *testing.T) {
	h, _ := mount(t)
	cases := []struct {
		method, path string
		ctype        string
		want         int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/version", "", http.StatusOK},
		{http.MethodGet, "/swagger/doc.json", "", http.StatusOK},
		{http.MethodPost, "/api/identify/photo", "multipart/form-data; boundary=x", http.StatusBadRequest},
		{http.MethodGet, "/admin/cache/stats", "", http.StatusForbidden},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, tc.path, strings.NewReader("--x--\r\n"))
			if tc.ctype != "" {
				r.Header.Set("Content-Type", tc.ctype)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestReadyReportsPG(t *testing.T) {
	h, _ := mount(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	var env struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name, Status string
			} `json:"checks"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Status != "ok" || env.Data.Checks[0].Name != "pg" || env.Data.Checks[0].Status != "ok" {
		t.Fatalf("ready = %+v", env.Data)
	}
}

func TestRunWithoutSinkStopsOnCancel(t *testing.T) {
	_, m := mount(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestProfilerSitsBehindAdminToken(t *testing.T) {
	h, _ := mountWith(t, "s3cret", true)
	cases := []struct {
		name, authz string
		want        int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"admin", "Bearer s3cret", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil)
			if tc.authz != "" {
				r.Header.Set("Authorization", tc.authz)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
