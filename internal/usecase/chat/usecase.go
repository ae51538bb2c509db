package chat

import (
	"context"
	"fmt"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/prompt"
	"github.com/avolkov/rag-backend/internal/pkg/validator"
	"github.com/avolkov/rag-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase implements the retrieval-augmented ask flow
type ChatUsecase struct {
	documentRepo repository.DocumentRepository
	memory       Memory
	embedder     EmbeddingConnector
	llm          LLMConnector
	validator    *validator.Validator
	cfg          *config.Config
	logger       *zap.Logger
}

func NewUsecase(
	documentRepo repository.DocumentRepository,
	memory Memory,
	embedder EmbeddingConnector,
	llm LLMConnector,
	validator *validator.Validator,
	cfg *config.Config,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		documentRepo: documentRepo,
		memory:       memory,
		embedder:     embedder,
		llm:          llm,
		validator:    validator,
		cfg:          cfg,
		logger:       logger,
	}
}

// Ask answers one question over the indexed documents. When the request
// carries a conversation ID, history is replayed into the prompt and the
// exchange is appended to the conversation afterwards; the answer is
// returned even if that append fails.
func (uc *ChatUsecase) Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error) {
	req.ApplyDefaults(uc.cfg.DefaultMaxContext)
	if err := uc.validator.ValidateAsk(req); err != nil {
		return nil, err
	}

	var history []*entity.Message
	if req.ConversationID != "" {
		if _, err := uc.memory.Get(ctx, req.ConversationID); err != nil {
			return nil, err
		}

		var err error
		history, err = uc.memory.ContextWindow(ctx, req.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
	}

	chunks, err := uc.retrieveContext(ctx, req.Question, req.MaxContext)
	if err != nil {
		return nil, err
	}

	out := prompt.Build(prompt.Input{
		Question: req.Question,
		Mode:     req.ContextMode,
		Strategy: req.Strategy,
		Format:   req.ResponseFormat,
		Chunks:   chunks,
		History:  history,
	})

	answer, model, err := uc.llm.Complete(ctx, out.Messages)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	metadata := out.Metadata
	metadata.Model = model
	metadata.ConversationID = req.ConversationID
	metadata.HasConversationHistory = len(history) > 0

	if req.ConversationID != "" {
		err := uc.memory.Append(ctx, req.ConversationID, req.Question, answer,
			map[string]string{"model": model})
		if err != nil {
			// The answer is already generated; losing it over a failed
			// history write would be worse than a gap in the transcript.
			ctxzap.Error(ctx, "failed to append exchange to conversation",
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err),
			)
		}
	}

	ctxzap.Info(ctx, "question answered",
		zap.String("strategy", string(req.Strategy)),
		zap.String("context_mode", string(req.ContextMode)),
		zap.Int("context_chunks_used", metadata.ContextChunksUsed),
		zap.Bool("has_conversation_history", metadata.HasConversationHistory),
	)

	return &entity.AskResponse{
		Response: answer,
		Metadata: metadata,
	}, nil
}

// Continue answers a follow-up question within an existing conversation.
// Unknown conversations fail before any upstream call is made.
func (uc *ChatUsecase) Continue(ctx context.Context, conversationID string, req *entity.AskRequest) (*entity.AskResponse, error) {
	req.ConversationID = conversationID
	return uc.Ask(ctx, req)
}

func (uc *ChatUsecase) retrieveContext(ctx context.Context, question string, maxContext int) ([]string, error) {
	if maxContext == 0 {
		return nil, nil
	}

	embedding, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	retrieved, err := uc.documentRepo.QuerySimilar(ctx, embedding, maxContext)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	chunks := make([]string, len(retrieved))
	for i, rc := range retrieved {
		chunks[i] = rc.Content
	}

	return chunks, nil
}
