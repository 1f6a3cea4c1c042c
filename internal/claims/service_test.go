package claims

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, claim *Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, claimID uuid.UUID) (*Claim, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Claim), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter ListClaimsFilter) ([]Claim, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Claim), args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, claimID uuid.UUID, status ClaimStatus) error {
	args := m.Called(ctx, claimID, status)
	return args.Error(0)
}

func (m *mockRepo) UpdateFraudScore(ctx context.Context, claimID uuid.UUID, fraudScore float64, riskLevel string) error {
	args := m.Called(ctx, claimID, fraudScore, riskLevel)
	return args.Error(0)
}

type mockPolicyVerifier struct {
	mock.Mock
}

func (m *mockPolicyVerifier) IsValid(ctx context.Context, policyNumber string) bool {
	args := m.Called(ctx, policyNumber)
	return args.Bool(0)
}

type mockDocumentLister struct {
	mock.Mock
}

func (m *mockDocumentLister) SummariesForClaim(ctx context.Context, claimID uuid.UUID) ([]DocumentSummary, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DocumentSummary), args.Error(1)
}

type mockQuestionCounter struct {
	mock.Mock
}

func (m *mockQuestionCounter) CountForClaim(ctx context.Context, claimID uuid.UUID) (int, error) {
	args := m.Called(ctx, claimID)
	return args.Int(0), args.Error(1)
}

func newCreateRequest() *CreateClaimRequest {
	desc := "Broken arm after a fall"
	return &CreateClaimRequest{
		PolicyNumber: "POL-2024-001",
		ClaimType:    "Medical Treatment",
		IncidentDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Description:  &desc,
	}
}

func TestCreateClaim_Success(t *testing.T) {
	repo := new(mockRepo)
	policies := new(mockPolicyVerifier)
	svc := NewService(repo, policies, nil, nil)

	policies.On("IsValid", mock.Anything, "POL-2024-001").Return(true)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*claims.Claim")).Return(nil)

	claim, err := svc.Create(context.Background(), newCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "POL-2024-001", claim.PolicyNumber)
	assert.Equal(t, StatusPending, claim.Status)
	repo.AssertExpectations(t)
	policies.AssertExpectations(t)
}

func TestCreateClaim_UnknownPolicy(t *testing.T) {
	repo := new(mockRepo)
	policies := new(mockPolicyVerifier)
	svc := NewService(repo, policies, nil, nil)

	policies.On("IsValid", mock.Anything, "POL-2024-001").Return(false)

	_, err := svc.Create(context.Background(), newCreateRequest())
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateClaim_StripsHTMLFromDescription(t *testing.T) {
	repo := new(mockRepo)
	policies := new(mockPolicyVerifier)
	svc := NewService(repo, policies, nil, nil)

	policies.On("IsValid", mock.Anything, "POL-2024-001").Return(true)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*claims.Claim")).Return(nil)

	req := newCreateRequest()
	desc := "  <script>alert(1)</script>Injured at <b>work</b>  "
	req.Description = &desc

	claim, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, claim.Description)
	assert.Equal(t, "alert(1)Injured at work", *claim.Description)
}

func TestGetByID_WithDocumentsAndQuestions(t *testing.T) {
	repo := new(mockRepo)
	policies := new(mockPolicyVerifier)
	docs := new(mockDocumentLister)
	questions := new(mockQuestionCounter)
	svc := NewService(repo, policies, docs, questions)

	claimID := uuid.New()
	repo.On("GetByID", mock.Anything, claimID).Return(&Claim{ID: claimID, PolicyNumber: "POL-2024-001", Status: StatusPending}, nil)
	docs.On("SummariesForClaim", mock.Anything, claimID).Return([]DocumentSummary{
		{ID: uuid.New(), Filename: "report.pdf", DocumentType: "medical_report"},
	}, nil)
	questions.On("CountForClaim", mock.Anything, claimID).Return(2, nil)

	detail, err := svc.GetByID(context.Background(), claimID)
	require.NoError(t, err)
	assert.Len(t, detail.Documents, 1)
	assert.Equal(t, 2, detail.QuestionsCount)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockPolicyVerifier), nil, nil)

	claimID := uuid.New()
	repo.On("GetByID", mock.Anything, claimID).Return(nil, ErrNotFound)

	_, err := svc.GetByID(context.Background(), claimID)
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestList_AppliesFilter(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockPolicyVerifier), nil, nil)

	filter := ListClaimsFilter{PolicyNumber: "POL-2024-002", Status: "pending"}
	repo.On("List", mock.Anything, filter).Return([]Claim{{}, {}}, nil)

	list, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockPolicyVerifier), nil, nil)

	claimID := uuid.New()
	repo.On("UpdateStatus", mock.Anything, claimID, StatusApproved).Return(ErrNotFound)

	_, err := svc.UpdateStatus(context.Background(), claimID, StatusApproved)
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestGetClaimInfo(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockPolicyVerifier), nil, nil)

	claimID := uuid.New()
	desc := "Surgery after accident"
	repo.On("GetByID", mock.Anything, claimID).Return(&Claim{
		ID:           claimID,
		PolicyNumber: "POL-2024-003",
		ClaimType:    "Surgery",
		IncidentDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:  &desc,
	}, nil)

	info, err := svc.GetClaimInfo(context.Background(), claimID)
	require.NoError(t, err)
	assert.Equal(t, claimID, info.ID)
	assert.Equal(t, "Surgery", info.ClaimType)
	assert.Equal(t, "Surgery after accident", info.Description)
}
