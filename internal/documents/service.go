package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/claims"
	"github.com/medguard/claim-portal/internal/extract"
	"github.com/medguard/claim-portal/internal/fraud"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/logger"
	"github.com/medguard/claim-portal/pkg/storage"
	"go.uber.org/zap"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".doc":  true,
	".docx": true,
}

var allowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Service handles claim document business logic
type Service struct {
	repo      RepositoryInterface
	claims    ClaimResolver
	storage   storage.Storage
	extractor *extract.Extractor
	maxSize   int64
}

// NewService creates a new document service
func NewService(repo RepositoryInterface, claimResolver ClaimResolver, store storage.Storage, extractor *extract.Extractor, maxFileSizeMB int) *Service {
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 10
	}
	return &Service{
		repo:      repo,
		claims:    claimResolver,
		storage:   store,
		extractor: extractor,
		maxSize:   int64(maxFileSizeMB) * 1024 * 1024,
	}
}

// Upload validates, stores and indexes a claim document. The document's
// feature record is computed from the extracted text once here and persisted
// alongside the row.
func (s *Service) Upload(ctx context.Context, claimID uuid.UUID, filename, contentType, documentType string, reader io.Reader, fileSize int64) (*UploadDocumentResponse, error) {
	if _, err := s.claims.GetClaimInfo(ctx, claimID); err != nil {
		return nil, common.NewNotFoundError("claim not found")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, common.NewBadRequestError(fmt.Sprintf("file type %s not allowed", ext), nil)
	}

	if contentType == "" {
		contentType = storage.GetMimeTypeFromExtension(filename)
	}
	if !storage.ValidateMimeType(contentType, allowedMimeTypes) {
		return nil, common.NewBadRequestError(fmt.Sprintf("file MIME type not allowed: %s", contentType), nil)
	}

	if fileSize > s.maxSize {
		return nil, common.NewBadRequestError(fmt.Sprintf("file size exceeds maximum of %d MB", s.maxSize/(1024*1024)), nil)
	}

	content, err := io.ReadAll(io.LimitReader(reader, s.maxSize+1))
	if err != nil {
		return nil, common.NewInternalServerError("failed to read uploaded file")
	}
	if len(content) == 0 {
		return nil, common.NewBadRequestError("file is empty", nil)
	}
	if int64(len(content)) > s.maxSize {
		return nil, common.NewBadRequestError(fmt.Sprintf("file size exceeds maximum of %d MB", s.maxSize/(1024*1024)), nil)
	}

	docType := fraud.DocumentType(documentType)
	if documentType == "" {
		docType = inferDocumentType(filename)
	}

	key := storage.GenerateDocumentKey(claimID, string(docType), filename)
	result, err := s.storage.Upload(ctx, key, bytes.NewReader(content), int64(len(content)), contentType)
	if err != nil {
		logger.Error("Failed to upload document to storage", zap.String("claim_id", claimID.String()), zap.Error(err))
		return nil, common.NewInternalServerError("failed to store document")
	}

	text := s.extractor.Extract(content, contentType, filename)
	features := fraud.ExtractFeatures(text, docType)

	doc := &Document{
		ClaimID:      claimID,
		Filename:     filename,
		DocumentType: docType,
		FileKey:      result.Key,
		FileURL:      result.URL,
		FileSize:     int64(len(content)),
		MimeType:     contentType,
		Features:     &features,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		// best effort cleanup of the orphaned object
		if delErr := s.storage.Delete(ctx, result.Key); delErr != nil {
			logger.Warn("Failed to delete orphaned storage object", zap.String("key", result.Key), zap.Error(delErr))
		}
		return nil, common.NewInternalServerError("failed to save document")
	}

	logger.Info("Document uploaded",
		zap.String("claim_id", claimID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("document_type", string(docType)),
		zap.Int("text_length", len(text)))

	return &UploadDocumentResponse{
		ID:           doc.ID,
		Filename:     doc.Filename,
		DocumentType: doc.DocumentType,
		FileSize:     doc.FileSize,
		UploadedAt:   doc.UploadedAt,
	}, nil
}

// ListByClaim retrieves all documents for a claim
func (s *Service) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]Document, error) {
	if _, err := s.claims.GetClaimInfo(ctx, claimID); err != nil {
		return nil, common.NewNotFoundError("claim not found")
	}
	return s.repo.ListByClaim(ctx, claimID)
}

// ListForClaim supplies stored documents to the fraud analysis pipeline
func (s *Service) ListForClaim(ctx context.Context, claimID uuid.UUID) ([]fraud.ClaimDocument, error) {
	docs, err := s.repo.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	out := make([]fraud.ClaimDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fraud.ClaimDocument{
			ID:           doc.ID,
			Filename:     doc.Filename,
			DocumentType: doc.DocumentType,
			MimeType:     doc.MimeType,
			FileKey:      doc.FileKey,
			Features:     doc.Features,
		})
	}
	return out, nil
}

// SummariesForClaim supplies abbreviated listings for claim detail responses
func (s *Service) SummariesForClaim(ctx context.Context, claimID uuid.UUID) ([]claims.DocumentSummary, error) {
	docs, err := s.repo.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	out := make([]claims.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, claims.DocumentSummary{
			ID:           doc.ID,
			Filename:     doc.Filename,
			DocumentType: string(doc.DocumentType),
		})
	}
	return out, nil
}

// inferDocumentType guesses the document category from filename keywords
func inferDocumentType(filename string) fraud.DocumentType {
	name := strings.ToLower(filename)

	switch {
	case containsAny(name, "medical", "report", "diagnosis"):
		return fraud.TypeMedicalReport
	case containsAny(name, "prescription", "rx"):
		return fraud.TypePrescription
	case containsAny(name, "invoice", "bill", "receipt"):
		return fraud.TypeInvoice
	case containsAny(name, "lab", "test", "result"):
		return fraud.TypeLabResult
	default:
		return fraud.TypeOther
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
