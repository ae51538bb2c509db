package chat

import (
	"encoding/json"
	"net/http"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/logger"
	"github.com/avolkov/rag-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Ask handles POST /ask - answer a question over the indexed documents
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// Continue handles POST /conversation/{id}/continue - follow-up question
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", id),
		zap.String("action", "ContinueConversation"),
	)

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.usecase.Continue(ctx, id, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}
