package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers question answering routes. The continue route is
// registered by the conversation package alongside the rest of the
// /conversation subtree.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/ask", h.Ask)
}
