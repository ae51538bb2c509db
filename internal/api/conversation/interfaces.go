package conversation

import (
	"context"

	"github.com/avolkov/rag-backend/internal/entity"
	usecase "github.com/avolkov/rag-backend/internal/usecase/conversation"
)

type ConversationUsecase interface {
	Create(ctx context.Context) (*entity.CreateConversationResponse, error)
	Get(ctx context.Context, id string) (*entity.Conversation, error)
	Detail(ctx context.Context, id string, window entity.MessageWindow) (*entity.ConversationDetail, error)
	Update(ctx context.Context, id string, req *entity.UpdateConversationRequest) (*entity.Conversation, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req entity.ListConversationsRequest) (*entity.ListConversationsResponse, error)
	Export(ctx context.Context, id string, format entity.ExportFormat) (*usecase.ExportResult, error)
}
