package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/formatter"
	"github.com/avolkov/rag-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxListLimit = 200

// ConversationUsecase implements conversation memory management
type ConversationUsecase struct {
	conversationRepo repository.ConversationRepository
	formatterFactory *formatter.Factory
	cfg              config.MemoryConfig
	logger           *zap.Logger
}

func NewUsecase(
	conversationRepo repository.ConversationRepository,
	formatterFactory *formatter.Factory,
	cfg config.MemoryConfig,
	logger *zap.Logger,
) *ConversationUsecase {
	return &ConversationUsecase{
		conversationRepo: conversationRepo,
		formatterFactory: formatterFactory,
		cfg:              cfg,
		logger:           logger,
	}
}

// Create starts an empty conversation
func (uc *ConversationUsecase) Create(ctx context.Context) (*entity.CreateConversationResponse, error) {
	conv := &entity.Conversation{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.conversationRepo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	ctxzap.Info(ctx, "conversation created", zap.String("conversation_id", conv.ID))

	return &entity.CreateConversationResponse{ConversationID: conv.ID}, nil
}

// Detail returns a conversation with a paginated window of its messages.
// The window holds the most recent messages older than the optional cutoff,
// returned in chronological order.
func (uc *ConversationUsecase) Detail(
	ctx context.Context, id string, window entity.MessageWindow,
) (*entity.ConversationDetail, error) {
	conv, err := uc.conversationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if window.Limit <= 0 {
		window.Limit = uc.cfg.DefaultPageSize
	}

	// Fetch one extra message to learn whether older history remains
	probe := window
	probe.Limit = window.Limit + 1

	messages, err := uc.conversationRepo.GetMessages(ctx, id, probe)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	hasMore := false
	if len(messages) > window.Limit {
		hasMore = true
		messages = messages[1:]
	}

	return &entity.ConversationDetail{
		ConversationID:  conv.ID,
		Title:           conv.Title,
		CreatedAt:       conv.CreatedAt,
		LastInteraction: conv.LastInteraction,
		TotalMessages:   conv.TotalMessages,
		Messages:        messages,
		Metadata:        conv.Metadata,
		HasMore:         hasMore,
	}, nil
}

// Get returns conversation metadata without messages
func (uc *ConversationUsecase) Get(ctx context.Context, id string) (*entity.Conversation, error) {
	return uc.conversationRepo.Get(ctx, id)
}

// Update applies a partial update to title and metadata. Metadata keys merge
// into the existing map; existing keys absent from the request survive.
func (uc *ConversationUsecase) Update(
	ctx context.Context, id string, req *entity.UpdateConversationRequest,
) (*entity.Conversation, error) {
	conv, err := uc.conversationRepo.Update(ctx, id, req.Title, req.Metadata)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "conversation updated", zap.String("conversation_id", id))
	return conv, nil
}

// Delete removes a conversation and all its messages
func (uc *ConversationUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.conversationRepo.Delete(ctx, id); err != nil {
		return err
	}

	ctxzap.Info(ctx, "conversation deleted", zap.String("conversation_id", id))
	return nil
}

// List returns a page of conversations with listing metadata
func (uc *ConversationUsecase) List(
	ctx context.Context, req entity.ListConversationsRequest,
) (*entity.ListConversationsResponse, error) {
	if req.SortBy == "" {
		req.SortBy = entity.SortByLastInteraction
	}
	if !req.SortBy.IsValid() {
		return nil, fmt.Errorf("%w: sort_by %q", entity.ErrInvalidParameter, req.SortBy)
	}

	if req.Limit <= 0 {
		req.Limit = uc.cfg.DefaultPageSize
	}
	if req.Limit > maxListLimit {
		req.Limit = maxListLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	conversations, total, err := uc.conversationRepo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	order := "asc"
	if req.Descending {
		order = "desc"
	}

	return &entity.ListConversationsResponse{
		Conversations: conversations,
		Metadata: entity.ListMetadata{
			Total:    total,
			Returned: len(conversations),
			Offset:   req.Offset,
			Limit:    req.Limit,
			SortBy:   string(req.SortBy),
			Order:    order,
		},
	}, nil
}

// Cleanup deletes conversations whose last interaction is older than the
// given number of days. A non-positive value falls back to the configured
// default age.
func (uc *ConversationUsecase) Cleanup(ctx context.Context, maxAgeDays int) (*entity.CleanupResult, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = uc.cfg.CleanupMaxAgeDays
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays)
	deleted, err := uc.conversationRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("cleanup conversations: %w", err)
	}

	ctxzap.Info(ctx, "conversation cleanup finished",
		zap.Int("deleted_count", deleted),
		zap.Int("max_age_days", maxAgeDays),
	)

	return &entity.CleanupResult{
		DeletedCount: deleted,
		MaxAgeDays:   maxAgeDays,
	}, nil
}
