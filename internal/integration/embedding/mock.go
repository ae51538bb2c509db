package embedding

import (
	"context"
	"hash/fnv"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector produces deterministic pseudo-embeddings for local runs and
// tests; similar strings do not get similar vectors, but every string gets
// the same vector on every call.
type MockConnector struct {
	dimensions int
	logger     *zap.Logger
}

func NewMockConnector(dimensions int, logger *zap.Logger) *MockConnector {
	return &MockConnector{
		dimensions: dimensions,
		logger:     logger,
	}
}

func (m *MockConnector) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding texts", zap.Int("count", len(texts)))

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = m.pseudoEmbedding(text)
	}

	return embeddings, nil
}

func (m *MockConnector) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding query")
	return m.pseudoEmbedding(query), nil
}

func (m *MockConnector) pseudoEmbedding(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, m.dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed>>33))/float32(1<<30) - 1
	}

	return vec
}
