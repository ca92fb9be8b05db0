package httpkit

import (
	"net/http"
	"strings"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/net/middleware"

	"github.com/golang-jwt/jwt/v5"
)

// TokenFunc verifies a raw bearer token and returns its subject
type TokenFunc func(token string) (subject string, err error)

// Port implements middleware.SubjectParser by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

var _ middleware.SubjectParser = (*Port)(nil)

// NewPortFunc builds a Port from a parser function
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Subject returns "" when no bearer token is sent and 401 when one is sent but fails to verify
func (p *Port) Subject(r *http.Request) (string, error) {
	if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
		return "", nil
	}
	raw, ok := middleware.BearerToken(r)
	if !ok || p.parse == nil {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	sub, err := p.parse(raw)
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return sub, nil
}

// HS256 verifies HMAC signed JWTs with secret and returns the sub claim
func HS256(secret []byte) TokenFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	return func(token string) (string, error) {
		claims := jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	}
}

// SubjectsFromSecret returns a JWT port, or nil when no secret is configured
func SubjectsFromSecret(secret string) middleware.SubjectParser {
	if secret == "" {
		return nil
	}
	return NewPortFunc(HS256([]byte(secret)))
}
