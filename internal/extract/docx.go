package extract

import (
	"bytes"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/medguard/claim-portal/pkg/logger"
	"go.uber.org/zap"
)

// extractDocx concatenates all paragraph texts with newline separators
func (e *Extractor) extractDocx(data []byte, filename string) string {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Warn("Failed to parse Word document",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return ""
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			text := strings.TrimSpace(p.String())
			if text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
	}

	return strings.Join(paragraphs, "\n")
}
