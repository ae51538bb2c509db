package document

import (
	"net/http"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/pkg/logger"
	"github.com/avolkov/rag-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase DocumentUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// Upload handles POST /document/upload - index a new document
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	_, fh, err := r.FormFile("file")
	if err != nil {
		ctxzap.Error(ctx, "missing file field", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "file is required")
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")

	ctxzap.Info(ctx, "uploading document",
		zap.String("filename", fh.Filename),
		zap.Int64("size_bytes", fh.Size),
		zap.String("title", title),
	)

	resp, err := h.usecase.Upload(ctx, fh, title, description)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Created(w, resp)
}

// Get handles GET /document/{doc_id} - fetch document metadata
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "doc_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", docID),
		zap.String("action", "GetDocument"),
	)

	doc, err := h.usecase.Get(ctx, docID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, doc)
}

// List handles GET /documents - list all indexed documents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	resp, err := h.usecase.List(ctx)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// Delete handles DELETE /document/{doc_id} - remove a document from the index
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "doc_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", docID),
		zap.String("action", "DeleteDocument"),
	)

	if err := h.usecase.Delete(ctx, docID); err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": "Document deleted successfully",
	})
}
