package modkit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"birdspot/internal/modkit"
	"birdspot/internal/modkit/httpkit"
	phttp "birdspot/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestBuildDefaults(t *testing.T) {
	b := modkit.Build(modkit.WithName("quota"))
	if b.Name != "quota" || b.Prefix != "" {
		t.Fatalf("built = %+v", b)
	}
	if b.Subrouter == nil || b.Register == nil {
		t.Fatal("hooks should default to no-ops")
	}
}

func TestBuildOptionsCopyMiddleware(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	opts := []modkit.Option{modkit.WithMiddlewares(mw), modkit.WithPorts(42), modkit.WithPrefix("/admin")}
	b := modkit.Build(opts...)
	if len(b.Mw) != 1 || b.Ports != 42 || b.Prefix != "/admin" {
		t.Fatalf("built = %+v", b)
	}
}

func TestBuiltMount(t *testing.T) {
	tagged := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Mod", "admin")
			next.ServeHTTP(w, r)
		})
	}
	b := modkit.Build(
		modkit.WithPrefix("/admin"),
		modkit.WithMiddlewares(tagged),
		modkit.WithRegister(func(r phttp.Router) {
			httpkit.Get(r, "/extra", func(*http.Request) (any, error) { return "extra", nil })
		}),
	)

	m := chi.NewRouter()
	b.Mount(phttp.AdaptChi(m), func(r httpkit.Router) {
		httpkit.Get(r, "/cache/stats", func(*http.Request) (any, error) { return map[string]int{"entries": 1}, nil })
	})

	for _, path := range []string{"/admin/cache/stats", "/admin/extra"} {
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Header().Get("X-Mod") != "admin" {
			t.Fatalf("%s: status=%d header=%q", path, rec.Code, rec.Header().Get("X-Mod"))
		}
	}
}

func TestBuiltMountAtRoot(t *testing.T) {
	b := modkit.Build()
	m := chi.NewRouter()
	b.Mount(phttp.AdaptChi(m), func(r httpkit.Router) {
		httpkit.Get(r, "/version", func(*http.Request) (any, error) { return "v", nil })
	})
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
