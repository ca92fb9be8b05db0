// Package net holds request scoped values shared by transports
package net

import (
	"context"
	"net"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey uint8

const keyCaller ctxKey = iota

// Caller is who a request is charged to
type Caller struct {
	// Identity is the quota key: a token subject, an X-User-Id value or "ip:<addr>"
	Identity string

	// IP is the client address used for logs
	IP string

	// Explicit is false when Identity was synthesized from the IP
	Explicit bool
}

// WithRequest stores a request id the way chi's RequestID middleware does
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// WithCaller annotates ctx with the resolved caller
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, keyCaller, c)
}

// CallerFrom returns the caller on ctx
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(keyCaller).(Caller)
	return c, ok
}

// ClientIP is the first X-Forwarded-For entry, else the remote host, else "unknown"
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}

// ResolveCaller picks the identity for r; subject is a verified token subject or ""
func ResolveCaller(r *http.Request, subject string) Caller {
	ip := ClientIP(r)
	if s := strings.TrimSpace(subject); s != "" {
		return Caller{Identity: s, IP: ip, Explicit: true}
	}
	if uid := strings.TrimSpace(r.Header.Get("X-User-Id")); uid != "" {
		return Caller{Identity: uid, IP: ip, Explicit: true}
	}
	return Caller{Identity: "ip:" + ip, IP: ip}
}
