package httpkit

import (
	"birdspot/internal/platform/net/middleware"
)

// Protected groups routes behind a static bearer token
// an empty token answers 403 on every route in the group
func Protected(r Router, token string, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(middleware.StaticBearer(token))
		fn(gr)
	})
}
