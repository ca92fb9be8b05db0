package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/logger"
	pnet "birdspot/internal/platform/net"
	phttp "birdspot/internal/platform/net/http"
)

// HeaderFrontendKey carries the shared key the web client sends
const HeaderFrontendKey = "X-Frontend-Api-Key"

// SubjectParser verifies a bearer token on the request
// it returns "" and no error when the request carries no token
type SubjectParser interface {
	Subject(r *http.Request) (string, error)
}

// Caller resolves who the request is charged to and stores it on the context
// a presented but invalid bearer token is rejected with 401
func Caller(p SubjectParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var subject string
			if p != nil {
				s, err := p.Subject(r)
				if err != nil {
					logger.C(r.Context()).Warn().Err(err).Str("ip", pnet.ClientIP(r)).Msg("bearer rejected")
					reject(w, r, err)
					return
				}
				subject = s
			}
			c := pnet.ResolveCaller(r, subject)
			ctx := pnet.WithCaller(r.Context(), c)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), c.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FrontendKey requires HeaderFrontendKey to equal key when required is set
func FrontendKey(required bool, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !required {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderFrontendKey)
			if got == "" || key == "" || !equal(got, key) {
				reject(w, r, perr.Unauthorizedf("invalid frontend api key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StaticBearer requires "Authorization: Bearer <token>"; an empty token closes the route
func StaticBearer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				reject(w, r, perr.Forbiddenf("admin api disabled"))
				return
			}
			raw, ok := BearerToken(r)
			if !ok || !equal(raw, token) {
				reject(w, r, perr.Unauthorizedf("invalid bearer token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken returns the token from a case-insensitive "Bearer" Authorization header
func BearerToken(r *http.Request) (string, bool) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(s[len(prefix):])
	return raw, raw != ""
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func reject(w http.ResponseWriter, r *http.Request, err error) {
	phttp.RespondError(w, r, err)
}
