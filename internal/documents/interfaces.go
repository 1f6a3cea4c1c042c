package documents

import (
	"context"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/fraud"
)

// RepositoryInterface defines the document data operations used by the service
type RepositoryInterface interface {
	Create(ctx context.Context, doc *Document) error
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]Document, error)
}

// ClaimResolver checks that a claim exists before documents attach to it
type ClaimResolver interface {
	GetClaimInfo(ctx context.Context, claimID uuid.UUID) (*fraud.ClaimInfo, error)
}
