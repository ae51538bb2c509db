package conversation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers conversation routes. The continue handler lives
// in the chat package but is routed here because it shares the
// /conversation/{id} subtree.
func RegisterRoutes(r chi.Router, h *Handler, continueHandler http.HandlerFunc) {
	r.Route("/conversation", func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/detail", h.Detail)
		r.Get("/{id}/export", h.Export)
		r.Post("/{id}/continue", continueHandler)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	r.Get("/conversations", h.List)
}
