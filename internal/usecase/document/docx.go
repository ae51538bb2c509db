package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/avolkov/rag-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

// extractDocxText flattens a .docx file into plain text, one line per
// paragraph. Formatting is discarded; only the run text survives.
func extractDocxText(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parse docx: %v", entity.ErrInvalidFile, err)
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
