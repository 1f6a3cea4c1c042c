package questions

import (
	"context"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/fraud"
)

// RepositoryInterface defines the question data operations used by the service
type RepositoryInterface interface {
	Create(ctx context.Context, q *Question) error
	RecentByClaim(ctx context.Context, claimID uuid.UUID, limit int) ([]Question, error)
	CountByClaim(ctx context.Context, claimID uuid.UUID) (int, error)
}

// ClaimResolver checks that a claim exists and supplies its dialogue context
type ClaimResolver interface {
	GetClaimInfo(ctx context.Context, claimID uuid.UUID) (*fraud.ClaimInfo, error)
}
