package claims

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/fraud"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/logger"
	"go.uber.org/zap"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// Service handles claim business logic
type Service struct {
	repo      RepositoryInterface
	policies  PolicyVerifier
	documents DocumentLister // optional
	questions QuestionCounter
}

// NewService creates a new claim service. documents and questions may be nil;
// detail responses then omit the corresponding sections.
func NewService(repo RepositoryInterface, policies PolicyVerifier, documents DocumentLister, questions QuestionCounter) *Service {
	return &Service{
		repo:      repo,
		policies:  policies,
		documents: documents,
		questions: questions,
	}
}

// AttachCollaborators wires the document and question services, which are
// constructed after this service because they resolve claims through it.
func (s *Service) AttachCollaborators(documents DocumentLister, questions QuestionCounter) {
	s.documents = documents
	s.questions = questions
}

// Create submits a new claim after verifying its policy
func (s *Service) Create(ctx context.Context, req *CreateClaimRequest) (*Claim, error) {
	if !s.policies.IsValid(ctx, req.PolicyNumber) {
		return nil, common.NewNotFoundError("policy not found")
	}

	claim := &Claim{
		PolicyNumber: req.PolicyNumber,
		ClaimType:    req.ClaimType,
		IncidentDate: req.IncidentDate,
		Description:  sanitizeDescription(req.Description),
		Status:       StatusPending,
	}

	if err := s.repo.Create(ctx, claim); err != nil {
		return nil, common.NewInternalServerError("failed to create claim")
	}

	logger.Info("Claim created",
		zap.String("claim_id", claim.ID.String()),
		zap.String("policy_number", claim.PolicyNumber),
		zap.String("claim_type", claim.ClaimType))

	return claim, nil
}

// GetByID retrieves a claim with its documents and question count
func (s *Service) GetByID(ctx context.Context, claimID uuid.UUID) (*ClaimDetailResponse, error) {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NewNotFoundError("claim not found")
		}
		return nil, common.NewInternalServerError("failed to get claim")
	}

	detail := &ClaimDetailResponse{Claim: *claim, Documents: []DocumentSummary{}}

	if s.documents != nil {
		docs, err := s.documents.SummariesForClaim(ctx, claimID)
		if err != nil {
			logger.Warn("Failed to list claim documents", zap.String("claim_id", claimID.String()), zap.Error(err))
		} else {
			detail.Documents = docs
		}
	}

	if s.questions != nil {
		count, err := s.questions.CountForClaim(ctx, claimID)
		if err != nil {
			logger.Warn("Failed to count claim questions", zap.String("claim_id", claimID.String()), zap.Error(err))
		} else {
			detail.QuestionsCount = count
		}
	}

	return detail, nil
}

// List retrieves claims matching the filter
func (s *Service) List(ctx context.Context, filter ListClaimsFilter) (*ClaimsListResponse, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, common.NewInternalServerError("failed to list claims")
	}
	return &ClaimsListResponse{Claims: list, Total: len(list)}, nil
}

// ListByPolicy retrieves all claims filed against one policy
func (s *Service) ListByPolicy(ctx context.Context, policyNumber string) (*ClaimsListResponse, error) {
	return s.List(ctx, ListClaimsFilter{PolicyNumber: policyNumber})
}

// UpdateStatus changes a claim's review status
func (s *Service) UpdateStatus(ctx context.Context, claimID uuid.UUID, status ClaimStatus) (*Claim, error) {
	if err := s.repo.UpdateStatus(ctx, claimID, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NewNotFoundError("claim not found")
		}
		return nil, common.NewInternalServerError("failed to update claim status")
	}

	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, common.NewInternalServerError("failed to get claim")
	}

	return claim, nil
}

// UpdateFraudScore persists a fraud analysis result onto the claim
func (s *Service) UpdateFraudScore(ctx context.Context, claimID uuid.UUID, fraudScore float64, riskLevel string) error {
	return s.repo.UpdateFraudScore(ctx, claimID, fraudScore, riskLevel)
}

// GetClaimInfo resolves the claim context needed for fraud analysis
func (s *Service) GetClaimInfo(ctx context.Context, claimID uuid.UUID) (*fraud.ClaimInfo, error) {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	info := &fraud.ClaimInfo{
		ID:           claim.ID,
		PolicyNumber: claim.PolicyNumber,
		ClaimType:    claim.ClaimType,
		IncidentDate: claim.IncidentDate,
	}
	if claim.Description != nil {
		info.Description = *claim.Description
	}

	return info, nil
}

// sanitizeDescription strips HTML tags and surrounding whitespace
func sanitizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	cleaned := strings.TrimSpace(htmlTagPattern.ReplaceAllString(*description, ""))
	return &cleaned
}
