package proposal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers proposal routes. generateMiddlewares wrap only
// the generation endpoint.
func RegisterRoutes(r chi.Router, h *Handler, generateMiddlewares ...func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.With(generateMiddlewares...).Post("/generate-proposal", h.GenerateProposal)
		r.Post("/download-pdf", h.DownloadPDF)
		r.Post("/download/{format}", h.DownloadDocument)
	})
}
