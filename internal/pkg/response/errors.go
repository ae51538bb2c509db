package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// StatusOf maps domain sentinel errors to HTTP status codes
func StatusOf(err error) int {
	switch {
	case errors.Is(err, entity.ErrDocumentNotFound),
		errors.Is(err, entity.ErrConversationNotFound),
		errors.Is(err, entity.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrEmptyDocument),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUpstreamFailure):
		return http.StatusBadGateway
	case errors.Is(err, entity.ErrStorageFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the mapped error response and logs server-side failures
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, "request failed", zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, "request rejected", zap.Int("status", status), zap.Error(err))
	}

	Error(w, status, err.Error())
}
