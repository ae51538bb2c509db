package embedding

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

// Connector talks to an OpenAI-compatible embeddings API
type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// EmbedTexts embeds the given texts, preserving input order
func (c *Connector) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "embedding texts", zap.Int("count", len(texts)))

	req := &entity.EmbeddingRequest{
		Model: c.config.Model,
		Input: texts,
	}

	var resp entity.EmbeddingResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbeddingsEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("%w: embed texts: %v", entity.ErrUpstreamFailure, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: embedding count mismatch: sent %d, got %d",
			entity.ErrUpstreamFailure, len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", entity.ErrUpstreamFailure, item.Index)
		}
		embeddings[item.Index] = item.Embedding
	}

	ctxzap.Debug(ctx, "texts embedded", zap.Int("count", len(embeddings)))

	return embeddings, nil
}

// EmbedQuery embeds a single query string
func (c *Connector) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := c.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	return embeddings[0], nil
}
