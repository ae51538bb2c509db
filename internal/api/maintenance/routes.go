package maintenance

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers maintenance routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/maintenance/cleanup", h.Cleanup)
}
