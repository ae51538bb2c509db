package chat

import (
	"context"

	"github.com/avolkov/rag-backend/internal/entity"
)

type LLMConnector interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (answer string, model string, err error)
	Model() string
}

type EmbeddingConnector interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Memory provides the conversation history side of the ask flow
type Memory interface {
	Get(ctx context.Context, id string) (*entity.Conversation, error)
	ContextWindow(ctx context.Context, id string) ([]*entity.Message, error)
	Append(ctx context.Context, conversationID, question, answer string, answerMetadata map[string]string) error
}
