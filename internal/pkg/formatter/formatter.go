package formatter

import (
	"fmt"

	"github.com/avolkov/rag-backend/internal/entity"
)

const untitledTranscript = "Conversation transcript"

// Transcript is the export view of a conversation
type Transcript struct {
	Conversation *entity.Conversation
	Messages     []*entity.Message
}

func (t *Transcript) Title() string {
	if t.Conversation != nil && t.Conversation.Title != "" {
		return t.Conversation.Title
	}
	return untitledTranscript
}

type Formatter interface {
	Format(t *Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.ExportMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.ExportJSON:
		return NewJSONFormatter(), nil
	case entity.ExportDocx:
		return NewDOCXFormatter(), nil
	case entity.ExportPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
