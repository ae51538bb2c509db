package health

import (
	"context"
	"net/http"

	"github.com/avolkov/rag-backend/internal/pkg/response"
)

// Pinger reports liveness of a storage dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	documentStore     Pinger
	conversationStore Pinger
}

func NewHandler(documentStore, conversationStore Pinger) *Handler {
	return &Handler{
		documentStore:     documentStore,
		conversationStore: conversationStore,
	}
}

// Check handles GET /health - component status overview
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	components := map[string]string{
		"vector_store": componentStatus(h.documentStore.Ping(ctx)),
		"memory":       componentStatus(h.conversationStore.Ping(ctx)),
	}

	status := http.StatusOK
	overall := "healthy"
	for _, s := range components {
		if s != "healthy" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
			break
		}
	}

	response.JSON(w, status, map[string]any{
		"status":     overall,
		"components": components,
	})
}

func componentStatus(err error) string {
	if err != nil {
		return "unavailable"
	}
	return "healthy"
}
