package conversation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/logger"
	"github.com/avolkov/rag-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ConversationUsecase
}

func NewHandler(usecase ConversationUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Create handles POST /conversation/create - start an empty conversation
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateConversation")

	resp, err := h.usecase.Create(ctx)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Created(w, resp)
}

// Get handles GET /conversation/{id} - conversation summary without messages
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", id),
		zap.String("action", "GetConversation"),
	)

	conv, err := h.usecase.Get(ctx, id)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, conv)
}

// Detail handles GET /conversation/{id}/detail - paginated message history
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", id),
		zap.String("action", "GetConversationDetail"),
	)

	window, err := parseMessageWindow(r)
	if err != nil {
		ctxzap.Warn(ctx, "invalid window parameters", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.usecase.Detail(ctx, id, window)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, detail)
}

// Update handles PATCH /conversation/{id} - partial title/metadata update
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", id),
		zap.String("action", "UpdateConversation"),
	)

	var req entity.UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.usecase.Update(ctx, id, &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, conv)
}

// Delete handles DELETE /conversation/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", id),
		zap.String("action", "DeleteConversation"),
	)

	if err := h.usecase.Delete(ctx, id); err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Conversation deleted successfully",
	})
}

// List handles GET /conversations - paginated, sortable conversation listing
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListConversations")

	req, err := parseListRequest(r)
	if err != nil {
		ctxzap.Warn(ctx, "invalid listing parameters", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.usecase.List(ctx, req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// Export handles GET /conversation/{id}/export - transcript download
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := entity.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.ExportMarkdown
	}

	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", id),
		zap.String("format", string(format)),
		zap.String("action", "ExportConversation"),
	)

	result, err := h.usecase.Export(ctx, id, format)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

func parseMessageWindow(r *http.Request) (entity.MessageWindow, error) {
	var window entity.MessageWindow

	if raw := r.URL.Query().Get("message_limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return window, fmt.Errorf("message_limit must be a positive integer, got %q", raw)
		}
		window.Limit = limit
	}

	if raw := r.URL.Query().Get("before_timestamp"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, fmt.Errorf("before_timestamp must be RFC3339, got %q", raw)
		}
		window.BeforeTimestamp = &ts
	}

	return window, nil
}

func parseListRequest(r *http.Request) (entity.ListConversationsRequest, error) {
	req := entity.ListConversationsRequest{
		SortBy:     entity.ConversationSort(r.URL.Query().Get("sort_by")),
		Descending: true,
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return req, fmt.Errorf("limit must be a positive integer, got %q", raw)
		}
		req.Limit = limit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return req, fmt.Errorf("offset must be a non-negative integer, got %q", raw)
		}
		req.Offset = offset
	}

	switch order := r.URL.Query().Get("order"); order {
	case "", "desc":
	case "asc":
		req.Descending = false
	default:
		return req, fmt.Errorf("order must be asc or desc, got %q", order)
	}

	return req, nil
}
