package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/google/uuid"
)

// summarySourceLimit caps how far back the summary looks. Conversations
// longer than this keep only the most recent questions in the summary.
const summarySourceLimit = 50

// ContextWindow returns the history slice fed to the prompt assembler: the
// most recent MaxHistory messages verbatim, preceded by one synthetic
// summary message when older history exists. The summary is generated
// locally and deterministically, without an LLM round trip.
func (uc *ConversationUsecase) ContextWindow(ctx context.Context, id string) ([]*entity.Message, error) {
	conv, err := uc.conversationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	recent, err := uc.conversationRepo.GetMessages(ctx, id, entity.MessageWindow{
		Limit: uc.cfg.MaxHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("get recent messages: %w", err)
	}

	if conv.TotalMessages <= len(recent) || len(recent) == 0 {
		return recent, nil
	}

	oldest := recent[0].CreatedAt
	older, err := uc.conversationRepo.GetMessages(ctx, id, entity.MessageWindow{
		Limit:           summarySourceLimit,
		BeforeTimestamp: &oldest,
	})
	if err != nil {
		return nil, fmt.Errorf("get older messages: %w", err)
	}
	if len(older) == 0 {
		return recent, nil
	}

	summary := summarizeHistory(id, older)
	return append([]*entity.Message{summary}, recent...), nil
}

// summarizeHistory condenses older messages into one synthetic assistant
// message listing the questions already covered.
func summarizeHistory(conversationID string, older []*entity.Message) *entity.Message {
	var questions []string
	for _, msg := range older {
		if msg.Role == entity.RoleUser {
			questions = append(questions, strings.TrimSpace(msg.Content))
		}
	}

	var sb strings.Builder
	sb.WriteString("Summary of the earlier conversation: ")
	if len(questions) == 0 {
		fmt.Fprintf(&sb, "%d earlier messages were exchanged.", len(older))
	} else {
		sb.WriteString("the user previously asked about the following topics:")
		for i, q := range questions {
			fmt.Fprintf(&sb, "\n%d. %s", i+1, q)
		}
	}

	return &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           entity.RoleAssistant,
		Content:        sb.String(),
		CreatedAt:      older[len(older)-1].CreatedAt,
		Metadata:       map[string]string{"synthetic": "summary"},
	}
}

// Append records a completed exchange. Both turns are written in one
// transaction so a conversation never ends on an unanswered question.
func (uc *ConversationUsecase) Append(
	ctx context.Context, conversationID, question, answer string, answerMetadata map[string]string,
) error {
	now := time.Now().UTC()

	messages := []*entity.Message{
		{
			ID:             uuid.New().String(),
			ConversationID: conversationID,
			Role:           entity.RoleUser,
			Content:        question,
			CreatedAt:      now,
		},
		{
			ID:             uuid.New().String(),
			ConversationID: conversationID,
			Role:           entity.RoleAssistant,
			Content:        answer,
			CreatedAt:      now.Add(time.Microsecond),
			Metadata:       answerMetadata,
		},
	}

	if err := uc.conversationRepo.AppendMessages(ctx, conversationID, messages); err != nil {
		return fmt.Errorf("append messages: %w", err)
	}

	return nil
}
