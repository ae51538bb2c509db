package formatter

import (
	"bytes"
	"fmt"
	"time"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(t *Transcript) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", t.Title())

	if t.Conversation != nil {
		fmt.Fprintf(&buf, "Created: %s\n\n", t.Conversation.CreatedAt.Format(time.RFC3339))
	}

	for _, msg := range t.Messages {
		fmt.Fprintf(&buf, "**%s** (%s):\n\n%s\n\n",
			msg.Role, msg.CreatedAt.Format(time.RFC3339), msg.Content)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
