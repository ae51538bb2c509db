package document

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/avolkov/rag-backend/internal/pkg/chunker"
	"github.com/avolkov/rag-backend/internal/pkg/validator"
	"github.com/avolkov/rag-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentUsecase implements the upload/index/list/delete document flow
type DocumentUsecase struct {
	documentRepo repository.DocumentRepository
	chunker      *chunker.Chunker
	embedder     EmbeddingConnector
	validator    *validator.Validator
	logger       *zap.Logger
}

func NewUsecase(
	documentRepo repository.DocumentRepository,
	chunker *chunker.Chunker,
	embedder EmbeddingConnector,
	validator *validator.Validator,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		documentRepo: documentRepo,
		chunker:      chunker,
		embedder:     embedder,
		validator:    validator,
		logger:       logger,
	}
}

// Upload validates, extracts, chunks, embeds and indexes one document.
// The document becomes queryable only after the whole pipeline commits;
// a failure at any stage leaves no partial state behind.
func (uc *DocumentUsecase) Upload(
	ctx context.Context, fh *multipart.FileHeader, title, description string,
) (*entity.UploadDocumentResponse, error) {
	if err := uc.validator.ValidateUpload(fh, title); err != nil {
		return nil, err
	}

	text, err := uc.extractText(fh)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyDocument, fh.Filename)
	}

	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyDocument, fh.Filename)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := uc.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	doc := &entity.Document{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Filename:    validator.SanitizeFilename(fh.Filename),
		UploadedAt:  time.Now().UTC(),
	}

	entityChunks := make([]entity.Chunk, len(chunks))
	for i, c := range chunks {
		entityChunks[i] = entity.Chunk{
			DocumentID: doc.ID,
			Position:   c.Index,
			Content:    c.Text,
		}
	}

	if err := uc.documentRepo.CreateWithChunks(ctx, doc, entityChunks, embeddings); err != nil {
		return nil, fmt.Errorf("index document: %w", err)
	}

	ctxzap.Info(ctx, "document indexed",
		zap.String("document_id", doc.ID),
		zap.String("title", title),
		zap.Int("chunk_count", len(chunks)),
	)

	return &entity.UploadDocumentResponse{
		Message:         "Document uploaded and processed successfully",
		DocumentID:      doc.ID,
		ChunksProcessed: len(chunks),
	}, nil
}

// Get returns document metadata by ID
func (uc *DocumentUsecase) Get(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := uc.documentRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns metadata for every indexed document
func (uc *DocumentUsecase) List(ctx context.Context) (*entity.DocumentListResponse, error) {
	docs, err := uc.documentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return &entity.DocumentListResponse{
		Documents: docs,
		Total:     len(docs),
	}, nil
}

// Delete removes a document and its chunks from the index
func (uc *DocumentUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.documentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	ctxzap.Info(ctx, "document deleted", zap.String("document_id", id))
	return nil
}

func (uc *DocumentUsecase) extractText(fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", entity.ErrInvalidFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %v", entity.ErrInvalidFile, err)
	}

	if strings.HasSuffix(strings.ToLower(fh.Filename), ".docx") {
		return extractDocxText(data)
	}

	return string(data), nil
}
