package formatter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTranscript() *Transcript {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return &Transcript{
		Conversation: &entity.Conversation{
			ID:        "conv-1",
			Title:     "Refund policy",
			CreatedAt: created,
		},
		Messages: []*entity.Message{
			{Role: entity.RoleUser, Content: "what is the refund window?", CreatedAt: created.Add(time.Minute)},
			{Role: entity.RoleAssistant, Content: "30 days from delivery.", CreatedAt: created.Add(2 * time.Minute)},
		},
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	cases := []struct {
		format      entity.ExportFormat
		contentType string
		extension   string
	}{
		{entity.ExportMarkdown, "text/markdown; charset=utf-8", ".md"},
		{entity.ExportJSON, "application/json", ".json"},
		{entity.ExportDocx, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
		{entity.ExportPDF, "application/pdf", ".pdf"},
	}
	for _, tc := range cases {
		fm, err := f.Create(tc.format)
		require.NoError(t, err, tc.format)
		assert.Equal(t, tc.contentType, fm.ContentType(), tc.format)
		assert.Equal(t, tc.extension, fm.FileExtension(), tc.format)
	}

	_, err := f.Create(entity.ExportFormat("csv"))
	require.Error(t, err)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleTranscript())
	require.NoError(t, err)

	md := string(out)
	assert.Contains(t, md, "# Refund policy")
	assert.Contains(t, md, "Created: 2026-03-01T09:30:00Z")
	assert.Contains(t, md, "**user** (2026-03-01T09:31:00Z):")
	assert.Contains(t, md, "what is the refund window?")
	assert.Contains(t, md, "**assistant**")
	assert.Contains(t, md, "30 days from delivery.")
}

func TestMarkdownFormatterUntitled(t *testing.T) {
	tr := sampleTranscript()
	tr.Conversation.Title = ""

	out, err := NewMarkdownFormatter().Format(tr)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Conversation transcript")
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter().Format(sampleTranscript())
	require.NoError(t, err)

	var payload struct {
		Conversation *entity.Conversation `json:"conversation"`
		Messages     []*entity.Message    `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out, &payload))

	assert.Equal(t, "conv-1", payload.Conversation.ID)
	require.Len(t, payload.Messages, 2)
	assert.Equal(t, entity.RoleAssistant, payload.Messages[1].Role)
}

func TestDOCXFormatter(t *testing.T) {
	out, err := NewDOCXFormatter().Format(sampleTranscript())
	require.NoError(t, err)
	// docx files are zip archives
	require.Greater(t, len(out), 4)
	assert.Equal(t, []byte("PK"), out[:2])
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleTranscript())
	require.NoError(t, err)
	require.Greater(t, len(out), 5)
	assert.Equal(t, []byte("%PDF-"), out[:5])
}
