// Package swaggerkit mounts the Swagger UI and the OpenAPI document
package swaggerkit

import (
	"net/http"

	phttp "combatscore/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Base is where the UI and doc.json are served
const Base = "/api/docs"

// Mount the Swagger UI and JSON spec if enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(Base, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, Base+"/", http.StatusPermanentRedirect)
	})
	r.Get(Base+"/doc.json", serveDocJSON)
	r.Handle(Base+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL(Base+"/doc.json"),
	))
}
