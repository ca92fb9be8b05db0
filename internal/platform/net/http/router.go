package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is the plain handler func every route registers
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount against; AdaptChi is the only implementation
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Delete(path string, h Handler)
	Handle(path string, h http.Handler)

	Use(mw ...func(http.Handler) http.Handler)
	// Group shares the parent path but scopes middleware to fn's routes
	Group(fn func(Router))
	// Route mounts fn's routes under pattern
	Route(pattern string, fn func(Router))

	Mux() http.Handler
}

// AdaptChi wraps a chi root mux or subrouter
func AdaptChi(r chi.Router) Router { return chiRouter{r} }

type chiRouter struct{ mux chi.Router }

func (c chiRouter) method(m, path string, h Handler) { c.mux.Method(m, path, http.HandlerFunc(h)) }

func (c chiRouter) Get(path string, h Handler)    { c.method(http.MethodGet, path, h) }
func (c chiRouter) Post(path string, h Handler)   { c.method(http.MethodPost, path, h) }
func (c chiRouter) Delete(path string, h Handler) { c.method(http.MethodDelete, path, h) }

func (c chiRouter) Handle(path string, h http.Handler)        { c.mux.Handle(path, h) }
func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.mux.Use(mw...) }
func (c chiRouter) Mux() http.Handler                         { return c.mux }

func (c chiRouter) Group(fn func(Router)) {
	c.mux.Group(func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.mux.Route(pattern, func(sub chi.Router) { fn(chiRouter{sub}) })
}

// URLParam reads a path parameter such as {identity}
func URLParam(r *http.Request, key string) string { return chi.URLParam(r, key) }
