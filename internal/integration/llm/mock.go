package llm

import (
	"context"
	"fmt"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockModelName = "mock-completion-model"

// MockConnector echoes the question back for local runs and tests
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, string, error) {
	ctxzap.Info(ctx, "[MOCK] generating chat completion", zap.Int("message_count", len(messages)))

	if len(messages) == 0 {
		return "", "", fmt.Errorf("%w: no messages supplied", entity.ErrInvalidParameter)
	}

	last := messages[len(messages)-1]
	answer := fmt.Sprintf("This is a mock answer to: %s", last.Content)

	return answer, mockModelName, nil
}

func (m *MockConnector) Model() string {
	return mockModelName
}
