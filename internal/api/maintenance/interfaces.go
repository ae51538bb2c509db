package maintenance

import (
	"context"

	"github.com/avolkov/rag-backend/internal/entity"
)

type ConversationUsecase interface {
	Cleanup(ctx context.Context, maxAgeDays int) (*entity.CleanupResult, error)
}
