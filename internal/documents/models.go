package documents

import (
	"time"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/fraud"
)

// Document represents an uploaded claim document
type Document struct {
	ID           uuid.UUID               `json:"id" db:"id"`
	ClaimID      uuid.UUID               `json:"claim_id" db:"claim_id"`
	Filename     string                  `json:"filename" db:"filename"`
	DocumentType fraud.DocumentType      `json:"document_type" db:"document_type"`
	FileKey      string                  `json:"file_key" db:"file_key"`
	FileURL      string                  `json:"file_url" db:"file_url"`
	FileSize     int64                   `json:"file_size" db:"file_size"`
	MimeType     string                  `json:"mime_type" db:"mime_type"`
	Features     *fraud.DocumentFeatures `json:"features,omitempty" db:"features"`
	UploadedAt   time.Time               `json:"uploaded_at" db:"uploaded_at"`
}

// UploadDocumentResponse is the upload confirmation
type UploadDocumentResponse struct {
	ID           uuid.UUID          `json:"id"`
	Filename     string             `json:"filename"`
	DocumentType fraud.DocumentType `json:"document_type"`
	FileSize     int64              `json:"file_size"`
	UploadedAt   time.Time          `json:"uploaded_at"`
}
