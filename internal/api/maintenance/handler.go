package maintenance

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/avolkov/rag-backend/internal/pkg/logger"
	"github.com/avolkov/rag-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ConversationUsecase
}

func NewHandler(usecase ConversationUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Cleanup handles POST /maintenance/cleanup - delete stale conversations
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CleanupConversations")

	maxAgeDays := 0
	if raw := r.URL.Query().Get("max_age_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			ctxzap.Warn(ctx, "invalid max_age_days", zap.String("value", raw))
			response.Error(w, http.StatusBadRequest,
				fmt.Sprintf("max_age_days must be a positive integer, got %q", raw))
			return
		}
		maxAgeDays = days
	}

	result, err := h.usecase.Cleanup(ctx, maxAgeDays)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, result)
}
