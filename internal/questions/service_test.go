package questions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/ai"
	"github.com/medguard/claim-portal/internal/fraud"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, q *Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *mockRepo) RecentByClaim(ctx context.Context, claimID uuid.UUID, limit int) ([]Question, error) {
	args := m.Called(ctx, claimID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Question), args.Error(1)
}

func (m *mockRepo) CountByClaim(ctx context.Context, claimID uuid.UUID) (int, error) {
	args := m.Called(ctx, claimID)
	return args.Int(0), args.Error(1)
}

type mockClaimResolver struct {
	mock.Mock
}

func (m *mockClaimResolver) GetClaimInfo(ctx context.Context, claimID uuid.UUID) (*fraud.ClaimInfo, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fraud.ClaimInfo), args.Error(1)
}

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	return p.reply, p.err
}

func testClaim(claimID uuid.UUID) *fraud.ClaimInfo {
	return &fraud.ClaimInfo{
		ID:           claimID,
		PolicyNumber: "POL-2024-001",
		ClaimType:    "Medical Treatment",
		IncidentDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Description:  "Fell off a ladder",
	}
}

func TestAsk_WithProvider(t *testing.T) {
	repo := new(mockRepo)
	resolver := new(mockClaimResolver)
	provider := &stubProvider{reply: "There is a suspicious delay here. When did you first see a doctor? Can you share the invoice?"}
	svc := NewService(repo, resolver, nil, provider)

	claimID := uuid.New()
	resolver.On("GetClaimInfo", mock.Anything, claimID).Return(testClaim(claimID), nil)
	repo.On("RecentByClaim", mock.Anything, claimID, dialogueHistoryLimit).Return([]Question{}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*questions.Question")).Return(nil)

	resp, err := svc.Ask(context.Background(), claimID, "I waited two weeks before going to the hospital")
	require.NoError(t, err)
	assert.Equal(t, provider.reply, resp.AIMessage)
	assert.Contains(t, resp.FraudIndicators, "Suspicious pattern detected")
	assert.Contains(t, resp.FraudIndicators, "Unexplained delay")
	require.NotEmpty(t, resp.FollowUpQuestions)

	// persisted exchange is flagged when indicators fire
	saved := repo.Calls[1].Arguments.Get(1).(*Question)
	assert.True(t, saved.IsFraudIndicative)
	assert.Equal(t, provider.reply, saved.AIResponse)
}

func TestAsk_ProviderFailureFallsBack(t *testing.T) {
	repo := new(mockRepo)
	resolver := new(mockClaimResolver)
	provider := &stubProvider{err: errors.New("rate limited")}
	svc := NewService(repo, resolver, nil, provider)

	claimID := uuid.New()
	resolver.On("GetClaimInfo", mock.Anything, claimID).Return(testClaim(claimID), nil)
	repo.On("RecentByClaim", mock.Anything, claimID, dialogueHistoryLimit).Return([]Question{}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*questions.Question")).Return(nil)

	resp, err := svc.Ask(context.Background(), claimID, "Here are the details")
	require.NoError(t, err)
	assert.Equal(t, fallbackResponses[0], resp.AIMessage)
	assert.NotEmpty(t, resp.FollowUpQuestions)
}

func TestAsk_NoProviderRotatesFallbacks(t *testing.T) {
	repo := new(mockRepo)
	resolver := new(mockClaimResolver)
	svc := NewService(repo, resolver, nil, nil)

	claimID := uuid.New()
	resolver.On("GetClaimInfo", mock.Anything, claimID).Return(testClaim(claimID), nil)
	repo.On("RecentByClaim", mock.Anything, claimID, dialogueHistoryLimit).Return([]Question{{}, {}}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*questions.Question")).Return(nil)

	resp, err := svc.Ask(context.Background(), claimID, "Anything else you need?")
	require.NoError(t, err)
	assert.Equal(t, fallbackResponses[2], resp.AIMessage)
}

func TestAsk_ClaimNotFound(t *testing.T) {
	repo := new(mockRepo)
	resolver := new(mockClaimResolver)
	svc := NewService(repo, resolver, nil, nil)

	claimID := uuid.New()
	resolver.On("GetClaimInfo", mock.Anything, claimID).Return(nil, errors.New("no rows"))

	_, err := svc.Ask(context.Background(), claimID, "hello")
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestExtractFollowUps(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "no questions",
			text:     "Everything looks consistent. Thank you.",
			expected: []string{},
		},
		{
			name:     "single question",
			text:     "Thanks for the details. When did the symptoms first appear?",
			expected: []string{"When did the symptoms first appear?"},
		},
		{
			name: "caps at three",
			text: "First one? Sure. Second one? Fine. Third one? Good. Fourth one? Done.",
			expected: []string{
				"First one? Sure",
				"Second one? Fine",
				"Third one? Good",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractFollowUps(tt.text)
			require.Len(t, got, len(tt.expected))
			for i, want := range tt.expected {
				assert.Contains(t, got[i], want)
			}
		})
	}
}

func TestExtractFraudIndicators_Deterministic(t *testing.T) {
	text := "Missing paperwork and an unusual, suspicious inconsistency with a delay."
	got := extractFraudIndicators(text)
	assert.Equal(t, []string{
		"Inconsistent information",
		"Suspicious pattern detected",
		"Unusual circumstances",
		"Unexplained delay",
		"Missing documentation",
	}, got)
}

func TestCountForClaim(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockClaimResolver), nil, nil)

	claimID := uuid.New()
	repo.On("CountByClaim", mock.Anything, claimID).Return(4, nil)

	count, err := svc.CountForClaim(context.Background(), claimID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
