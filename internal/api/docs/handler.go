package docs

import (
	"net/http"
	"os"

	"github.com/futig/proposal-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const specRoute = "/docs/swagger.yaml"

// Handler returns a handler that serves Swagger UI for the proposal API.
func Handler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(specRoute),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// SpecHandler serves the OpenAPI document at specPath. The file is read on
// every request so edits show up without a restart.
func SpecHandler(specPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := os.ReadFile(specPath)
		if err != nil {
			response.Error(w, http.StatusNotFound, "api specification not found")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

// RegisterRoutes mounts the documentation UI and the OpenAPI document.
func RegisterRoutes(r chi.Router, specPath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})

	r.Get(specRoute, SpecHandler(specPath))
	r.Get("/docs/*", Handler())
}
