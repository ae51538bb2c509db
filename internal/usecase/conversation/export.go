package conversation

import (
	"context"
	"fmt"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/formatter"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// exportMessageLimit caps the transcript length. Conversations are bounded
// in practice by the cleanup sweep, so the cap is a safety valve only.
const exportMessageLimit = 10000

// ExportResult is a rendered transcript ready to serve as a download
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Export renders the full conversation transcript in the requested format
func (uc *ConversationUsecase) Export(
	ctx context.Context, id string, format entity.ExportFormat,
) (*ExportResult, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: export format %q", entity.ErrInvalidParameter, format)
	}

	conv, err := uc.conversationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	messages, err := uc.conversationRepo.GetMessages(ctx, id, entity.MessageWindow{
		Limit: exportMessageLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	f, err := uc.formatterFactory.Create(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	data, err := f.Format(&formatter.Transcript{
		Conversation: conv,
		Messages:     messages,
	})
	if err != nil {
		return nil, fmt.Errorf("render transcript: %w", err)
	}

	ctxzap.Info(ctx, "conversation exported",
		zap.String("conversation_id", id),
		zap.String("format", string(format)),
		zap.Int("message_count", len(messages)),
	)

	return &ExportResult{
		Data:        data,
		ContentType: f.ContentType(),
		Filename:    fmt.Sprintf("conversation_%s%s", conv.ID, f.FileExtension()),
	}, nil
}
