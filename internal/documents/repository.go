package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medguard/claim-portal/internal/fraud"
)

// Repository handles document data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new document repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new document with its feature record
func (r *Repository) Create(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (id, claim_id, filename, document_type, file_key, file_url, file_size, mime_type, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING uploaded_at
	`

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	var features []byte
	if doc.Features != nil {
		var err error
		features, err = json.Marshal(doc.Features)
		if err != nil {
			return fmt.Errorf("failed to marshal document features: %w", err)
		}
	}

	err := r.db.QueryRow(ctx, query,
		doc.ID,
		doc.ClaimID,
		doc.Filename,
		doc.DocumentType,
		doc.FileKey,
		doc.FileURL,
		doc.FileSize,
		doc.MimeType,
		features,
	).Scan(&doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// ListByClaim retrieves all documents for a claim in upload order
func (r *Repository) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]Document, error) {
	query := `
		SELECT id, claim_id, filename, document_type, file_key, file_url, file_size, mime_type, features, uploaded_at
		FROM documents
		WHERE claim_id = $1
		ORDER BY uploaded_at ASC
	`

	rows, err := r.db.Query(ctx, query, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		var features []byte
		err := rows.Scan(
			&doc.ID,
			&doc.ClaimID,
			&doc.Filename,
			&doc.DocumentType,
			&doc.FileKey,
			&doc.FileURL,
			&doc.FileSize,
			&doc.MimeType,
			&features,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(features) > 0 {
			var f fraud.DocumentFeatures
			if err := json.Unmarshal(features, &f); err == nil {
				doc.Features = &f
			}
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
