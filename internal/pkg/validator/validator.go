package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
)

// AllowedExtensions are the document types the upload endpoint accepts
var AllowedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".docx": true,
}

// Validator validates inbound requests at the API boundary
type Validator struct {
	cfg config.FileUploadConfig
}

func New(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload validates a single document upload
func (v *Validator) ValidateUpload(fh *multipart.FileHeader, title string) error {
	if fh == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}
	if title == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s (allowed: txt, md, docx)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)",
			entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateAsk validates an ask request; enum fields fail fast on values
// outside the closed sets rather than flowing into prompt construction.
func (v *Validator) ValidateAsk(req *entity.AskRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	if req.MaxContext < 0 {
		return fmt.Errorf("%w: max_context must not be negative", entity.ErrInvalidParameter)
	}

	if err := req.Strategy.Validate(); err != nil {
		return err
	}
	if err := req.ResponseFormat.Validate(); err != nil {
		return err
	}
	if err := req.ContextMode.Validate(); err != nil {
		return err
	}

	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
