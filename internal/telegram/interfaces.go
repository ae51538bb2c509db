package telegram

import (
	"context"

	"github.com/avolkov/rag-backend/internal/entity"
	conversationuc "github.com/avolkov/rag-backend/internal/usecase/conversation"
)

type ChatUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error)
}

type ConversationUsecase interface {
	Create(ctx context.Context) (*entity.CreateConversationResponse, error)
	Export(ctx context.Context, id string, format entity.ExportFormat) (*conversationuc.ExportResult, error)
}
