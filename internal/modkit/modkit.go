// Package modkit assembles service modules: their deps, ports and routes
package modkit

import (
	"net/http"

	phttp "birdspot/internal/platform/net/http"
)

// Module is one unit of the service graph
// storage modules expose ports only; api modules mount routes and consume ports
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Option configures Build
type Option func(*buildCfg)

type buildCfg struct {
	name      string
	prefix    string
	mw        []func(http.Handler) http.Handler
	ports     any
	subrouter func(phttp.Router) phttp.Router
	register  func(phttp.Router)
}

// WithName names the module in logs and panics
func WithName(name string) Option { return func(c *buildCfg) { c.name = name } }

// WithPrefix mounts the module under prefix, "" or "/" shares the parent path
func WithPrefix(prefix string) Option { return func(c *buildCfg) { c.prefix = prefix } }

// WithMiddlewares appends middleware scoped to the module's routes
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts hands a module the ports it consumes, usually a Needs or Ports struct
func WithPorts[T any](p T) Option { return func(c *buildCfg) { c.ports = p } }

// WithSubrouter wraps the module router before routes are registered
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(c *buildCfg) { c.subrouter = fn }
}

// WithRegister mounts extra routes after the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(c *buildCfg) { c.register = fn } }
