package httpkit

import (
	"net/http"

	phttp "birdspot/internal/platform/net/http"
	"birdspot/internal/platform/net/http/bind"
)

// Get registers a no-body handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post registers a handler under POST that reads the request itself (uploads)
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// Delete registers a no-body handler under DELETE
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, Call(h))
}

// PostForm binds and validates form values into T before calling h
func PostForm[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.FormHandler(bind.DefaultMaxMemory, h))
}
