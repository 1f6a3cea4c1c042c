package fraud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/ai"
	"github.com/medguard/claim-portal/internal/extract"
	"github.com/medguard/claim-portal/pkg/logger"
	"github.com/medguard/claim-portal/pkg/storage"
	"go.uber.org/zap"
)

// extractWorkers bounds concurrent per-document extraction
const extractWorkers = 4

const (
	ruleConfidence  = 0.75
	modelConfidence = 0.85
)

// ClaimInfo is the claim context needed for analysis
type ClaimInfo struct {
	ID           uuid.UUID
	PolicyNumber string
	ClaimType    string
	IncidentDate time.Time
	Description  string
}

// ClaimDocument is one stored document belonging to a claim. Features holds
// the record computed at upload time; when nil the file is re-processed from
// storage.
type ClaimDocument struct {
	ID           uuid.UUID
	Filename     string
	DocumentType DocumentType
	MimeType     string
	FileKey      string
	Features     *DocumentFeatures
}

// QuestionAnswer is one prior dialogue exchange, used as narrative context
type QuestionAnswer struct {
	UserMessage string
	AIResponse  string
}

// ClaimStore persists analysis results onto the claim record
type ClaimStore interface {
	UpdateFraudScore(ctx context.Context, claimID uuid.UUID, fraudScore float64, riskLevel string) error
}

// DocumentSource lists a claim's stored documents
type DocumentSource interface {
	ListForClaim(ctx context.Context, claimID uuid.UUID) ([]ClaimDocument, error)
}

// QuestionSource lists a claim's dialogue history
type QuestionSource interface {
	RecentForClaim(ctx context.Context, claimID uuid.UUID, limit int) ([]QuestionAnswer, error)
}

// Service orchestrates fraud analysis for a claim: per-document feature
// collection, scoring, risk derivation, narrative generation and persistence.
type Service struct {
	claims    ClaimStore
	documents DocumentSource
	questions QuestionSource
	storage   storage.Storage
	extractor *extract.Extractor
	scorer    *Scorer
	narrative ai.Provider // nil when AI narrative is disabled
}

// NewService creates a fraud analysis service. narrative may be nil.
func NewService(claims ClaimStore, documents DocumentSource, questions QuestionSource, store storage.Storage, extractor *extract.Extractor, scorer *Scorer, narrative ai.Provider) *Service {
	return &Service{
		claims:    claims,
		documents: documents,
		questions: questions,
		storage:   store,
		extractor: extractor,
		scorer:    scorer,
		narrative: narrative,
	}
}

// Analyze runs the full fraud analysis for one claim and persists the
// resulting score and risk level onto the claim record.
func (s *Service) Analyze(ctx context.Context, claim ClaimInfo) (*AnalysisResult, error) {
	docs, err := s.documents.ListForClaim(ctx, claim.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claim documents: %w", err)
	}

	features := s.collectFeatures(ctx, docs)

	legit := s.scorer.Score(features)
	risk := RiskLevelFor(legit)

	result := &AnalysisResult{
		FraudScore:      100 - legit,
		LegitPercentage: legit,
		RiskLevel:       risk,
		Confidence:      ruleConfidence,
	}
	if s.scorer.HasModel() {
		result.Confidence = modelConfidence
	}

	s.attachNarrative(ctx, claim, docs, features, result)

	if err := s.claims.UpdateFraudScore(ctx, claim.ID, result.FraudScore, string(result.RiskLevel)); err != nil {
		return nil, fmt.Errorf("failed to persist fraud score: %w", err)
	}

	return result, nil
}

// collectFeatures returns the feature record of every readable document,
// preferring the record persisted at upload time and re-processing the stored
// file otherwise. Documents are processed concurrently; results keep the
// caller's (upload) order. Unreadable documents are skipped with a warning.
func (s *Service) collectFeatures(ctx context.Context, docs []ClaimDocument) []DocumentFeatures {
	results := make([]*DocumentFeatures, len(docs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, extractWorkers)

	for i, doc := range docs {
		if doc.Features != nil {
			results[i] = doc.Features
			continue
		}

		wg.Add(1)
		go func(i int, doc ClaimDocument) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			f, err := s.processDocument(ctx, doc)
			if err != nil {
				logger.WithContext(ctx).Warn("Skipping unreadable document",
					zap.String("document_id", doc.ID.String()),
					zap.String("filename", doc.Filename),
					zap.Error(err),
				)
				return
			}
			results[i] = f
		}(i, doc)
	}

	wg.Wait()

	features := make([]DocumentFeatures, 0, len(docs))
	for _, f := range results {
		if f != nil {
			features = append(features, *f)
		}
	}
	return features
}

func (s *Service) processDocument(ctx context.Context, doc ClaimDocument) (*DocumentFeatures, error) {
	reader, err := s.storage.Download(ctx, doc.FileKey)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	text := s.extractor.Extract(data, doc.MimeType, doc.Filename)
	f := ExtractFeatures(text, doc.DocumentType)
	return &f, nil
}

// attachNarrative fills indicators, recommendations and confidence from the
// AI narrative generator when available, and from local heuristics otherwise.
// Narrative failure never changes the numeric fields.
func (s *Service) attachNarrative(ctx context.Context, claim ClaimInfo, docs []ClaimDocument, features []DocumentFeatures, result *AnalysisResult) {
	if s.narrative != nil {
		if ok := s.generateNarrative(ctx, claim, docs, result); ok {
			return
		}
		logger.WithContext(ctx).Warn("Narrative generation failed, using local indicators",
			zap.String("claim_id", claim.ID.String()),
		)
	}

	result.Indicators = s.localIndicators(features, result.LegitPercentage)
	result.Recommendations = s.localRecommendations(features, result.LegitPercentage)
}

// narrativeAnalysis is the JSON shape requested from the LLM
type narrativeAnalysis struct {
	Indicators      []string `json:"indicators"`
	Recommendations []string `json:"recommendations"`
	Confidence      float64  `json:"confidence"`
}

func (s *Service) generateNarrative(ctx context.Context, claim ClaimInfo, docs []ClaimDocument, result *AnalysisResult) bool {
	prompt := s.buildNarrativePrompt(ctx, claim, docs, result)

	raw, err := s.narrative.Complete(ctx, ai.CompletionRequest{
		System:      "You are an expert fraud analyst for health insurance claims. Be thorough and objective.",
		Prompt:      prompt,
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		return false
	}

	var analysis narrativeAnalysis
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &analysis); err != nil {
		logger.WithContext(ctx).Warn("Narrative response was not valid JSON", zap.Error(err))
		return false
	}

	if len(analysis.Indicators) == 0 || len(analysis.Recommendations) == 0 {
		return false
	}

	result.Indicators = analysis.Indicators
	result.Recommendations = analysis.Recommendations
	if analysis.Confidence > 0 && analysis.Confidence <= 1 {
		result.Confidence = analysis.Confidence
	}
	return true
}

func (s *Service) buildNarrativePrompt(ctx context.Context, claim ClaimInfo, docs []ClaimDocument, result *AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this health insurance claim for fraud.\n\n")
	fmt.Fprintf(&b, "Claim Type: %s\n", claim.ClaimType)
	fmt.Fprintf(&b, "Incident Date: %s\n", claim.IncidentDate.Format("2006-01-02"))
	description := claim.Description
	if description == "" {
		description = "No description provided"
	}
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Document analysis legitimacy score: %.1f%%\n", result.LegitPercentage)
	fmt.Fprintf(&b, "\nDocuments uploaded: %d\n", len(docs))
	for _, doc := range docs {
		fmt.Fprintf(&b, "- %s: %s\n", doc.DocumentType, doc.Filename)
	}

	if s.questions != nil {
		if qas, err := s.questions.RecentForClaim(ctx, claim.ID, 5); err == nil && len(qas) > 0 {
			b.WriteString("\nPrevious Q&A:\n")
			for _, qa := range qas {
				fmt.Fprintf(&b, "Q: %s\nA: %s\n", qa.UserMessage, qa.AIResponse)
			}
		}
	}

	b.WriteString("\nRespond with ONLY valid JSON: {\"indicators\": [...], \"recommendations\": [...], \"confidence\": 0.0-1.0}")
	return b.String()
}

// localIndicators inspects the document features directly. The list is never
// empty.
func (s *Service) localIndicators(features []DocumentFeatures, legit float64) []string {
	var indicators []string

	if len(features) == 0 {
		indicators = append(indicators, "No documents uploaded for verification")
	}

	for _, f := range features {
		if (f.DocumentType == TypeMedicalReport || f.DocumentType == TypePrescription) && !f.HasSignature {
			indicators = append(indicators, "Missing signature on medical document")
			break
		}
	}

	if legit < 40 {
		indicators = append(indicators, "Low legitimacy score based on document analysis")
	}

	if len(indicators) == 0 {
		indicators = append(indicators, "No major fraud indicators detected")
	}

	return indicators
}

// localRecommendations tiers advice by the legitimacy percentage and flags
// missing document categories.
func (s *Service) localRecommendations(features []DocumentFeatures, legit float64) []string {
	var recs []string

	switch {
	case legit < 40:
		recs = append(recs,
			"Conduct detailed manual review",
			"Request additional documentation",
			"Verify details with medical providers",
		)
	case legit < 70:
		recs = append(recs,
			"Review claim documents carefully",
			"Cross-check policy coverage",
		)
	default:
		recs = append(recs,
			"Proceed with standard review process",
			"Cross-check policy coverage",
		)
	}

	hasMedicalReport := false
	hasInvoice := false
	for _, f := range features {
		if f.DocumentType == TypeMedicalReport {
			hasMedicalReport = true
		}
		if f.DocumentType == TypeInvoice {
			hasInvoice = true
		}
	}

	if !hasMedicalReport {
		recs = append(recs, "Request medical report from treating physician")
	}
	if !hasInvoice {
		recs = append(recs, "Request itemized bills and invoices")
	}

	return recs
}

// stripCodeFences removes markdown code fences so fenced JSON still parses
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "```json") {
		parts := strings.SplitN(text, "```json", 2)
		text = parts[1]
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.Contains(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
	}
	return strings.TrimSpace(text)
}
