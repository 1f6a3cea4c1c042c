package claims

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the claim data operations used by the service
type RepositoryInterface interface {
	Create(ctx context.Context, claim *Claim) error
	GetByID(ctx context.Context, claimID uuid.UUID) (*Claim, error)
	List(ctx context.Context, filter ListClaimsFilter) ([]Claim, error)
	UpdateStatus(ctx context.Context, claimID uuid.UUID, status ClaimStatus) error
	UpdateFraudScore(ctx context.Context, claimID uuid.UUID, fraudScore float64, riskLevel string) error
}

// PolicyVerifier checks that a policy number is currently valid
type PolicyVerifier interface {
	IsValid(ctx context.Context, policyNumber string) bool
}

// DocumentLister supplies document summaries for claim detail responses
type DocumentLister interface {
	SummariesForClaim(ctx context.Context, claimID uuid.UUID) ([]DocumentSummary, error)
}

// QuestionCounter counts dialogue entries for a claim
type QuestionCounter interface {
	CountForClaim(ctx context.Context, claimID uuid.UUID) (int, error)
}
