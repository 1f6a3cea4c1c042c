package extract

import (
	"strings"

	"github.com/medguard/claim-portal/pkg/logger"
	"go.uber.org/zap"
)

// Extractor turns uploaded document bytes into plain text. Extraction never
// fails from the caller's point of view: unreadable or unsupported input
// yields an empty string, which downstream scoring treats as signal.
type Extractor struct {
	ocr OCRClient
}

// OCRClient recognizes text in an image
type OCRClient interface {
	Recognize(image []byte) (string, error)
}

// Option configures an Extractor
type Option func(*Extractor)

// WithOCRClient overrides the default Tesseract OCR client
func WithOCRClient(ocr OCRClient) Option {
	return func(e *Extractor) {
		e.ocr = ocr
	}
}

// NewExtractor creates a text extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{ocr: &tesseractClient{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract extracts plain text from a document based on its media type
func (e *Extractor) Extract(data []byte, mimeType, filename string) string {
	lowerName := strings.ToLower(filename)

	switch {
	case mimeType == "application/pdf" || strings.HasSuffix(lowerName, ".pdf"):
		return e.extractPDF(data, filename)
	case strings.HasPrefix(mimeType, "image/"):
		return e.extractImage(data, filename)
	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		strings.HasSuffix(lowerName, ".docx"):
		return e.extractDocx(data, filename)
	default:
		logger.Debug("No text extraction for media type",
			zap.String("mime_type", mimeType),
			zap.String("filename", filename),
		)
		return ""
	}
}
