package middleware

import (
	"errors"
	stdhttp "net/http"
	"runtime/debug"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/logger"
	pnet "birdspot/internal/platform/net"
	phttp "birdspot/internal/platform/net/http"
)

// RecoverJSON converts panics into a JSON 500 envelope and logs the stack
// http.ErrAbortHandler is re-panicked so net/http can abort the connection
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, stdhttp.ErrAbortHandler) {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, wire := perr.HTTP(perr.PanicErrf("panic recovered"))
			phttp.JSON(w, status, phttp.Envelope{
				StatusCode: status,
				Status:     stdhttp.StatusText(status),
				Code:       wire.Code,
				Error:      wire.Message,
				RequestID:  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
