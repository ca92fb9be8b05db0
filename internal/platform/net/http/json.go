package http

import (
	"net/http"

	"birdspot/internal/platform/net/http/bind"
)

// FormHandler binds and validates form values into T before calling fn
func FormHandler[T any](maxMemory int64, fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseForm[T](r, maxMemory)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return wrap(out)
	})
}

// CallHandler wraps a handler that reads nothing beyond the request itself
func CallHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return wrap(out)
	})
}

func wrap(out any) Response {
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
