package formatter

import (
	"encoding/json"

	"github.com/avolkov/rag-backend/internal/entity"
)

const (
	jsonContentType   = "application/json"
	jsonFileExtension = ".json"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (jf *JSONFormatter) Format(t *Transcript) ([]byte, error) {
	payload := struct {
		Conversation *entity.Conversation `json:"conversation"`
		Messages     []*entity.Message    `json:"messages"`
	}{
		Conversation: t.Conversation,
		Messages:     t.Messages,
	}

	return json.MarshalIndent(payload, "", "  ")
}

func (jf *JSONFormatter) ContentType() string {
	return jsonContentType
}

func (jf *JSONFormatter) FileExtension() string {
	return jsonFileExtension
}
