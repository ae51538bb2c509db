package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/document", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Get("/{doc_id}", h.Get)
		r.Delete("/{doc_id}", h.Delete)
	})

	r.Get("/documents", h.List)
}
