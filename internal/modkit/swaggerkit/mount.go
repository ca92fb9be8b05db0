// Package swaggerkit mounts the Swagger UI and its JSON document
package swaggerkit

import (
	"net/http"

	"birdspot/internal/platform/config"
	phttp "birdspot/internal/platform/net/http"
	docs "birdspot/internal/services/api/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the UI under /swagger when enabled
func Mount(r phttp.Router, cfg config.Conf, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusPermanentRedirect)
	})
	r.Get("/swagger/doc.json", serveDocJSON(cfg))
	r.Handle("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		httpSwagger.URL("/swagger/doc.json"),
	))
}
