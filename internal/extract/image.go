package extract

import (
	"github.com/medguard/claim-portal/pkg/logger"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// tesseractClient is the default OCR client backed by Tesseract
type tesseractClient struct{}

func (t *tesseractClient) Recognize(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}

	return client.Text()
}

// extractImage runs OCR over the full image
func (e *Extractor) extractImage(data []byte, filename string) string {
	text, err := e.ocr.Recognize(data)
	if err != nil {
		logger.Warn("OCR failed for image",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return ""
	}

	return text
}
