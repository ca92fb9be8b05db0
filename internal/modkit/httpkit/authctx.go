package httpkit

import (
	"net/http"

	pnet "birdspot/internal/platform/net"
)

// Caller returns the resolved caller, falling back to the ip identity when
// the Caller middleware did not run
func Caller(r *http.Request) pnet.Caller {
	if c, ok := pnet.CallerFrom(r.Context()); ok {
		return c
	}
	return pnet.ResolveCaller(r, "")
}
