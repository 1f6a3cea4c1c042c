package extract

import (
	"bytes"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/medguard/claim-portal/pkg/logger"
	"go.uber.org/zap"
)

// extractPDF extracts text page by page, preferring the structured reader and
// falling back to MuPDF when it produces nothing. A single bad page is
// skipped, not fatal.
func (e *Extractor) extractPDF(data []byte, filename string) string {
	pages := readPDFPages(data)

	if len(pages) == 0 {
		logger.Warn("Structured PDF extraction produced no text, trying fallback parser",
			zap.String("filename", filename),
		)
		pages = readPDFPagesFitz(data)
	}

	return strings.Join(pages, "\n")
}

func readPDFPages(data []byte) []string {
	defer func() {
		// The pdf package panics on some malformed cross-reference tables.
		_ = recover()
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}

	return pages
}

func readPDFPagesFitz(data []byte) []string {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}

	return pages
}
