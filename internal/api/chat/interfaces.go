package chat

import (
	"context"

	"github.com/avolkov/rag-backend/internal/entity"
)

type ChatUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error)
	Continue(ctx context.Context, conversationID string, req *entity.AskRequest) (*entity.AskResponse, error)
}
