package document

import "context"

type EmbeddingConnector interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
