package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medguard/claim-portal/pkg/logger"
	"go.uber.org/zap"
)

// verificationCacheTTL bounds staleness of cached verification results
const verificationCacheTTL = 5 * time.Minute

// Service handles policy business logic
type Service struct {
	repo  RepositoryInterface
	cache Cache // optional
}

// NewService creates a new policy service. cache may be nil.
func NewService(repo RepositoryInterface, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// VerifyPolicy checks that a policy exists, is active and not expired.
// An unknown or expired policy is a valid=false response, not an error.
func (s *Service) VerifyPolicy(ctx context.Context, policyNumber string) (*VerifyPolicyResponse, error) {
	cacheKey := "policy:verify:" + policyNumber

	if s.cache != nil {
		if cached, err := s.cache.GetString(ctx, cacheKey); err == nil && cached != "" {
			var resp VerifyPolicyResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	resp := s.verify(ctx, policyNumber)

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.SetWithExpiration(ctx, cacheKey, payload, verificationCacheTTL); err != nil {
				logger.Warn("Failed to cache policy verification", zap.Error(err))
			}
		}
	}

	return resp, nil
}

func (s *Service) verify(ctx context.Context, policyNumber string) *VerifyPolicyResponse {
	invalid := &VerifyPolicyResponse{Valid: false, PolicyNumber: policyNumber}

	p, err := s.repo.GetByNumber(ctx, policyNumber)
	if err != nil {
		return invalid
	}

	if p.Status != StatusActive {
		return invalid
	}
	if p.ExpiryDate != nil && p.ExpiryDate.Before(time.Now()) {
		return invalid
	}

	resp := &VerifyPolicyResponse{
		Valid:            true,
		PolicyNumber:     p.PolicyNumber,
		PolicyHolderName: p.PolicyHolderName,
		PolicyType:       p.PolicyType,
	}
	if p.ExpiryDate != nil {
		expiry := p.ExpiryDate.Format(time.RFC3339)
		resp.ExpiryDate = &expiry
	}

	return resp
}

// IsValid reports whether a policy number refers to a currently valid policy
func (s *Service) IsValid(ctx context.Context, policyNumber string) bool {
	resp, err := s.VerifyPolicy(ctx, policyNumber)
	return err == nil && resp.Valid
}

// SeedSamplePolicies inserts sample policies when the table is empty
func (s *Service) SeedSamplePolicies(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count policies: %w", err)
	}
	if count > 0 {
		return nil
	}

	samples := []Policy{
		{
			PolicyNumber:     "POL-2024-001",
			PolicyHolderName: "John Smith",
			PolicyType:       "Premium Health",
			ExpiryDate:       timePtr(time.Now().AddDate(1, 0, 0)),
			Status:           StatusActive,
		},
		{
			PolicyNumber:     "POL-2024-002",
			PolicyHolderName: "Jane Doe",
			PolicyType:       "Basic Health",
			ExpiryDate:       timePtr(time.Now().AddDate(0, 6, 0)),
			Status:           StatusActive,
		},
		{
			PolicyNumber:     "POL-2024-003",
			PolicyHolderName: "Bob Johnson",
			PolicyType:       "Family Health",
			ExpiryDate:       timePtr(time.Now().AddDate(2, 0, 0)),
			Status:           StatusActive,
		},
	}

	for i := range samples {
		if err := s.repo.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	logger.Info("Seeded sample policies", zap.Int("count", len(samples)))
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
