package document

import (
	"context"
	"mime/multipart"

	"github.com/avolkov/rag-backend/internal/entity"
)

type DocumentUsecase interface {
	Upload(ctx context.Context, fh *multipart.FileHeader, title, description string) (*entity.UploadDocumentResponse, error)
	Get(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context) (*entity.DocumentListResponse, error)
	Delete(ctx context.Context, id string) error
}
