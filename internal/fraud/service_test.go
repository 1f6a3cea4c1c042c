package fraud

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/ai"
	"github.com/medguard/claim-portal/internal/extract"
	"github.com/medguard/claim-portal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClaimStore struct {
	mock.Mock
}

func (m *mockClaimStore) UpdateFraudScore(ctx context.Context, claimID uuid.UUID, fraudScore float64, riskLevel string) error {
	args := m.Called(ctx, claimID, fraudScore, riskLevel)
	return args.Error(0)
}

type mockDocumentSource struct {
	mock.Mock
}

func (m *mockDocumentSource) ListForClaim(ctx context.Context, claimID uuid.UUID) ([]ClaimDocument, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ClaimDocument), args.Error(1)
}

type mockQuestionSource struct {
	mock.Mock
}

func (m *mockQuestionSource) RecentForClaim(ctx context.Context, claimID uuid.UUID, limit int) ([]QuestionAnswer, error) {
	args := m.Called(ctx, claimID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]QuestionAnswer), args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockStorage) GetURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	return p.reply, p.err
}

func analysisClaim() ClaimInfo {
	return ClaimInfo{
		ID:           uuid.New(),
		PolicyNumber: "POL-2024-001",
		ClaimType:    "Medical Treatment",
		IncidentDate: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		Description:  "Knee injury during hiking",
	}
}

func newAnalysisService(store *mockClaimStore, docs *mockDocumentSource, questions QuestionSource, blobs *mockStorage, provider ai.Provider) *Service {
	return NewService(store, docs, questions, blobs, extract.NewExtractor(), NewScorer(nil), provider)
}

func TestAnalyze_NoDocuments(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	svc := newAnalysisService(store, docs, nil, new(mockStorage), nil)

	claim := analysisClaim()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{}, nil)
	store.On("UpdateFraudScore", mock.Anything, claim.ID, 50.0, "medium").Return(nil)

	result, err := svc.Analyze(context.Background(), claim)
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.LegitPercentage)
	assert.Equal(t, 50.0, result.FraudScore)
	assert.Equal(t, RiskMedium, result.RiskLevel)
	assert.Contains(t, result.Indicators, "No documents uploaded for verification")
	assert.Contains(t, result.Recommendations, "Review claim documents carefully")
	assert.Equal(t, ruleConfidence, result.Confidence)
	store.AssertExpectations(t)
}

func TestAnalyze_UsesStoredFeatures(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	blobs := new(mockStorage)
	svc := newAnalysisService(store, docs, nil, blobs, nil)

	claim := analysisClaim()
	features := strongMedicalReport()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{
		{ID: uuid.New(), Filename: "report.pdf", DocumentType: TypeMedicalReport, FileKey: "k1", Features: &features},
	}, nil)
	store.On("UpdateFraudScore", mock.Anything, claim.ID, 22.0, "low").Return(nil)

	result, err := svc.Analyze(context.Background(), claim)
	require.NoError(t, err)

	assert.Equal(t, 78.0, result.LegitPercentage)
	assert.Equal(t, 22.0, result.FraudScore)
	assert.Equal(t, RiskLow, result.RiskLevel)
	assert.Contains(t, result.Indicators, "No major fraud indicators detected")
	// no download happens when features were persisted at upload
	blobs.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}

func TestAnalyze_SkipsUnreadableDocument(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	blobs := new(mockStorage)
	svc := newAnalysisService(store, docs, nil, blobs, nil)

	claim := analysisClaim()
	features := strongMedicalReport()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{
		{ID: uuid.New(), Filename: "report.pdf", DocumentType: TypeMedicalReport, FileKey: "good", Features: &features},
		{ID: uuid.New(), Filename: "scan.jpg", MimeType: "image/jpeg", DocumentType: TypeOther, FileKey: "bad"},
	}, nil)
	blobs.On("Download", mock.Anything, "bad").Return(nil, errors.New("object missing"))
	store.On("UpdateFraudScore", mock.Anything, claim.ID, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Analyze(context.Background(), claim)
	require.NoError(t, err)

	// only the readable document scores: analysis continues on partial failure
	assert.Equal(t, 78.0, result.LegitPercentage)
}

func TestAnalyze_DocumentListFailure(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	svc := newAnalysisService(store, docs, nil, new(mockStorage), nil)

	claim := analysisClaim()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return(nil, errors.New("db down"))

	_, err := svc.Analyze(context.Background(), claim)
	assert.Error(t, err)
	store.AssertNotCalled(t, "UpdateFraudScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyze_PersistFailureSurfaces(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	svc := newAnalysisService(store, docs, nil, new(mockStorage), nil)

	claim := analysisClaim()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{}, nil)
	store.On("UpdateFraudScore", mock.Anything, claim.ID, mock.Anything, mock.Anything).Return(errors.New("write failed"))

	_, err := svc.Analyze(context.Background(), claim)
	assert.Error(t, err)
}

func TestAnalyze_NarrativeProviderSuppliesIndicators(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	questions := new(mockQuestionSource)
	provider := &stubProvider{reply: "```json\n{\"indicators\": [\"Dates conflict across documents\"], \"recommendations\": [\"Escalate to investigator\"], \"confidence\": 0.9}\n```"}
	svc := newAnalysisService(store, docs, questions, new(mockStorage), provider)

	claim := analysisClaim()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{}, nil)
	questions.On("RecentForClaim", mock.Anything, claim.ID, 5).Return([]QuestionAnswer{
		{UserMessage: "When will this be processed?", AIResponse: "Within five business days."},
	}, nil)
	store.On("UpdateFraudScore", mock.Anything, claim.ID, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Analyze(context.Background(), claim)
	require.NoError(t, err)

	assert.Equal(t, []string{"Dates conflict across documents"}, result.Indicators)
	assert.Equal(t, []string{"Escalate to investigator"}, result.Recommendations)
	assert.Equal(t, 0.9, result.Confidence)
	// numeric path is unaffected by the narrative
	assert.Equal(t, 50.0, result.LegitPercentage)
	questions.AssertExpectations(t)
}

func TestAnalyze_NarrativeWithoutQuestionSource(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	provider := &stubProvider{reply: "```json\n{\"indicators\": [\"Dates conflict across documents\"], \"recommendations\": [\"Escalate to investigator\"], \"confidence\": 0.9}\n```"}
	svc := newAnalysisService(store, docs, nil, new(mockStorage), provider)

	claim := analysisClaim()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{}, nil)
	store.On("UpdateFraudScore", mock.Anything, claim.ID, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Analyze(context.Background(), claim)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dates conflict across documents"}, result.Indicators)
}

func TestAnalyze_NarrativeFailureFallsBackToLocal(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	provider := &stubProvider{err: errors.New("timeout")}
	svc := newAnalysisService(store, docs, nil, new(mockStorage), provider)

	claim := analysisClaim()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{}, nil)
	store.On("UpdateFraudScore", mock.Anything, claim.ID, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Analyze(context.Background(), claim)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Indicators)
	assert.NotEmpty(t, result.Recommendations)
}

func TestAnalyze_MalformedNarrativeJSONFallsBack(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	provider := &stubProvider{reply: "I think this claim is fine."}
	svc := newAnalysisService(store, docs, nil, new(mockStorage), provider)

	claim := analysisClaim()
	docs.On("ListForClaim", mock.Anything, claim.ID).Return([]ClaimDocument{}, nil)
	store.On("UpdateFraudScore", mock.Anything, claim.ID, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Analyze(context.Background(), claim)
	require.NoError(t, err)
	assert.Contains(t, result.Indicators, "No documents uploaded for verification")
}

func TestLocalIndicators_MissingSignatureOnMedicalDocument(t *testing.T) {
	svc := newAnalysisService(new(mockClaimStore), new(mockDocumentSource), nil, new(mockStorage), nil)

	features := []DocumentFeatures{
		{DocumentType: TypePrescription, HasSignature: false, DateConsistency: 1, AmountConsistency: 1},
	}
	indicators := svc.localIndicators(features, 55)
	assert.Contains(t, indicators, "Missing signature on medical document")
}

func TestLocalIndicators_LowScore(t *testing.T) {
	svc := newAnalysisService(new(mockClaimStore), new(mockDocumentSource), nil, new(mockStorage), nil)

	features := []DocumentFeatures{
		{DocumentType: TypeInvoice, HasSignature: true, DateConsistency: 1, AmountConsistency: 1},
	}
	indicators := svc.localIndicators(features, 30)
	assert.Contains(t, indicators, "Low legitimacy score based on document analysis")
}

func TestLocalRecommendations_Tiers(t *testing.T) {
	svc := newAnalysisService(new(mockClaimStore), new(mockDocumentSource), nil, new(mockStorage), nil)

	features := []DocumentFeatures{
		{DocumentType: TypeMedicalReport},
		{DocumentType: TypeInvoice},
	}

	low := svc.localRecommendations(features, 30)
	assert.Contains(t, low, "Conduct detailed manual review")
	assert.Contains(t, low, "Request additional documentation")

	mid := svc.localRecommendations(features, 55)
	assert.Contains(t, mid, "Review claim documents carefully")

	high := svc.localRecommendations(features, 85)
	assert.Contains(t, high, "Proceed with standard review process")
}

func TestLocalRecommendations_MissingCategories(t *testing.T) {
	svc := newAnalysisService(new(mockClaimStore), new(mockDocumentSource), nil, new(mockStorage), nil)

	recs := svc.localRecommendations([]DocumentFeatures{{DocumentType: TypeOther}}, 75)
	assert.Contains(t, recs, "Request medical report from treating physician")
	assert.Contains(t, recs, "Request itemized bills and invoices")
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with prose", "Here you go:\n```json\n{\"a\": 1}\n```\nDone.", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFences(tt.input))
		})
	}
}

func TestCollectFeatures_PreservesOrderWithMixedSources(t *testing.T) {
	store := new(mockClaimStore)
	docs := new(mockDocumentSource)
	blobs := new(mockStorage)
	svc := newAnalysisService(store, docs, nil, blobs, nil)

	stored := DocumentFeatures{DocumentType: TypeMedicalReport, TextLength: 111, DateConsistency: 1, AmountConsistency: 1}
	blobs.On("Download", mock.Anything, "k2").
		Return(io.NopCloser(strings.NewReader("not a real pdf")), nil)

	features := svc.collectFeatures(context.Background(), []ClaimDocument{
		{ID: uuid.New(), Filename: "a.pdf", DocumentType: TypeMedicalReport, FileKey: "k1", Features: &stored},
		{ID: uuid.New(), Filename: "b.pdf", MimeType: "application/pdf", DocumentType: TypeInvoice, FileKey: "k2"},
	})

	require.Len(t, features, 2)
	assert.Equal(t, 111, features[0].TextLength)
	assert.Equal(t, TypeInvoice, features[1].DocumentType)
}
