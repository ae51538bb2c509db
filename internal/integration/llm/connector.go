package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/integration/common"
	pkghttp "github.com/avolkov/rag-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible chat-completions API
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete generates a completion for the assembled messages and returns the
// answer text plus the model name the upstream reports.
func (c *Connector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, string, error) {
	ctxzap.Info(ctx, "requesting chat completion",
		zap.String("model", c.config.Model),
		zap.Int("message_count", len(messages)),
	)

	req := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		TopP:        c.config.TopP,
	}

	var resp entity.ChatCompletionResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return "", "", fmt.Errorf("%w: chat completion: %v", entity.ErrUpstreamFailure, err)
	}

	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("%w: completion response has no choices", entity.ErrUpstreamFailure)
	}

	model := resp.Model
	if model == "" {
		model = c.config.Model
	}

	answer := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "chat completion received",
		zap.String("model", model),
		zap.Int("answer_length", len(answer)),
	)

	return answer, model, nil
}

// Model reports the configured completion model name
func (c *Connector) Model() string {
	return c.config.Model
}
