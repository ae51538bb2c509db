package validator

import (
	"mime/multipart"
	"testing"

	"github.com/avolkov/rag-backend/internal/config"
	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *Validator {
	return New(config.FileUploadConfig{
		MaxFileSize:   1024,
		MaxUploadSize: 4096,
	})
}

func TestValidateUpload(t *testing.T) {
	v := newValidator()

	t.Run("accepts allowed extensions", func(t *testing.T) {
		for _, name := range []string{"notes.txt", "readme.md", "report.docx", "UPPER.TXT"} {
			fh := &multipart.FileHeader{Filename: name, Size: 100}
			assert.NoError(t, v.ValidateUpload(fh, "title"), name)
		}
	})

	t.Run("rejects missing file", func(t *testing.T) {
		err := v.ValidateUpload(nil, "title")
		require.ErrorIs(t, err, entity.ErrMissingField)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		fh := &multipart.FileHeader{Filename: "notes.txt", Size: 100}
		err := v.ValidateUpload(fh, "")
		require.ErrorIs(t, err, entity.ErrMissingField)
	})

	t.Run("rejects unknown extension", func(t *testing.T) {
		fh := &multipart.FileHeader{Filename: "image.png", Size: 100}
		err := v.ValidateUpload(fh, "title")
		require.ErrorIs(t, err, entity.ErrInvalidExtension)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		fh := &multipart.FileHeader{Filename: "big.txt", Size: 2048}
		err := v.ValidateUpload(fh, "title")
		require.ErrorIs(t, err, entity.ErrFileTooLarge)
	})
}

func TestValidateAsk(t *testing.T) {
	v := newValidator()

	valid := func() *entity.AskRequest {
		return &entity.AskRequest{
			Question:       "what is the refund policy?",
			MaxContext:     3,
			Strategy:       entity.StrategyStandard,
			ResponseFormat: entity.FormatDefault,
			ContextMode:    entity.ModeStrict,
		}
	}

	t.Run("accepts valid request", func(t *testing.T) {
		assert.NoError(t, v.ValidateAsk(valid()))
	})

	t.Run("rejects blank question", func(t *testing.T) {
		req := valid()
		req.Question = "   \t"
		require.ErrorIs(t, v.ValidateAsk(req), entity.ErrMissingField)
	})

	t.Run("rejects negative max_context", func(t *testing.T) {
		req := valid()
		req.MaxContext = -1
		require.ErrorIs(t, v.ValidateAsk(req), entity.ErrInvalidParameter)
	})

	t.Run("rejects unknown enum values", func(t *testing.T) {
		req := valid()
		req.Strategy = "verbose"
		require.ErrorIs(t, v.ValidateAsk(req), entity.ErrInvalidParameter)

		req = valid()
		req.ResponseFormat = "yaml"
		require.ErrorIs(t, v.ValidateAsk(req), entity.ErrInvalidParameter)

		req = valid()
		req.ContextMode = "loose"
		require.ErrorIs(t, v.ValidateAsk(req), entity.ErrInvalidParameter)
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_report_v2.txt", SanitizeFilename("my report (v2).txt"))
	assert.Equal(t, "notes.md", SanitizeFilename("../../etc/notes.md"))
	assert.Equal(t, "plain.docx", SanitizeFilename("plain.docx"))
}
