package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medguard/claim-portal/internal/ai"
	"github.com/medguard/claim-portal/internal/fraud"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/logger"
	"go.uber.org/zap"
)

// dialogueHistoryLimit is how many prior exchanges feed the prompt context
const dialogueHistoryLimit = 5

const maxFollowUps = 3

const systemPrompt = `You are a fraud detection specialist for health insurance claims.
Your role is to ask insightful questions to identify potential fraud indicators.
Be professional, empathetic, but thorough. Look for inconsistencies, suspicious patterns,
or red flags. Ask follow-up questions when needed.`

// fallbackResponses rotate when no AI provider is configured or the call fails
var fallbackResponses = []string{
	"Thank you for that information. Can you please provide more details about when the symptoms first appeared?",
	"I understand. Could you clarify the sequence of events leading up to the incident?",
	"That's helpful. Are there any witnesses or medical professionals who can corroborate this information?",
	"Thank you. Can you explain why there was a delay between the incident and seeking medical attention?",
	"I see. Could you provide the contact information of the treating physician for verification?",
}

var fallbackFollowUps = []string{
	"When did the symptoms first appear?",
	"Who was the treating physician?",
}

// fraudKeywords maps response phrasing to fixed indicator strings
var fraudKeywords = map[string]string{
	"inconsistency": "Inconsistent information",
	"suspicious":    "Suspicious pattern detected",
	"unusual":       "Unusual circumstances",
	"delay":         "Unexplained delay",
	"missing":       "Missing documentation",
}

// Service handles the AI follow-up-question dialogue
type Service struct {
	repo      RepositoryInterface
	claims    ClaimResolver
	documents fraud.DocumentSource // optional
	provider  ai.Provider          // nil when AI dialogue is disabled
}

// NewService creates a new question service. documents and provider may be nil.
func NewService(repo RepositoryInterface, claimResolver ClaimResolver, documents fraud.DocumentSource, provider ai.Provider) *Service {
	return &Service{
		repo:      repo,
		claims:    claimResolver,
		documents: documents,
		provider:  provider,
	}
}

// Ask generates the assistant's next fraud-screening reply for a claim and
// persists the exchange. Provider failure degrades to a canned response and
// is never surfaced to the caller.
func (s *Service) Ask(ctx context.Context, claimID uuid.UUID, userMessage string) (*QuestionResponse, error) {
	claim, err := s.claims.GetClaimInfo(ctx, claimID)
	if err != nil {
		return nil, common.NewNotFoundError("claim not found")
	}

	var docs []fraud.ClaimDocument
	if s.documents != nil {
		docs, err = s.documents.ListForClaim(ctx, claimID)
		if err != nil {
			logger.Warn("Failed to list documents for dialogue context", zap.String("claim_id", claimID.String()), zap.Error(err))
		}
	}

	previous, err := s.repo.RecentByClaim(ctx, claimID, dialogueHistoryLimit)
	if err != nil {
		logger.Warn("Failed to load dialogue history", zap.String("claim_id", claimID.String()), zap.Error(err))
	}

	aiMessage := s.generateResponse(ctx, claim, docs, previous, userMessage)

	indicators := extractFraudIndicators(aiMessage)
	followUps := extractFollowUps(aiMessage)
	if len(followUps) == 0 {
		followUps = fallbackFollowUps
	}

	question := &Question{
		ClaimID:           claimID,
		UserMessage:       userMessage,
		AIResponse:        aiMessage,
		IsFraudIndicative: len(indicators) > 0,
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, common.NewInternalServerError("failed to save question")
	}

	return &QuestionResponse{
		AIMessage:         aiMessage,
		FollowUpQuestions: followUps,
		FraudIndicators:   indicators,
	}, nil
}

// RecentForClaim supplies dialogue history to the fraud analysis pipeline
func (s *Service) RecentForClaim(ctx context.Context, claimID uuid.UUID, limit int) ([]fraud.QuestionAnswer, error) {
	list, err := s.repo.RecentByClaim(ctx, claimID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]fraud.QuestionAnswer, 0, len(list))
	for _, q := range list {
		out = append(out, fraud.QuestionAnswer{UserMessage: q.UserMessage, AIResponse: q.AIResponse})
	}
	return out, nil
}

// CountForClaim counts dialogue entries for claim detail responses
func (s *Service) CountForClaim(ctx context.Context, claimID uuid.UUID) (int, error) {
	return s.repo.CountByClaim(ctx, claimID)
}

func (s *Service) generateResponse(ctx context.Context, claim *fraud.ClaimInfo, docs []fraud.ClaimDocument, previous []Question, userMessage string) string {
	if s.provider == nil {
		return fallbackResponse(len(previous))
	}

	prompt := buildPrompt(claim, docs, previous, userMessage)
	reply, err := s.provider.Complete(ctx, ai.CompletionRequest{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		logger.Warn("AI dialogue call failed, using fallback response",
			zap.String("claim_id", claim.ID.String()),
			zap.Error(err))
		return fallbackResponse(len(previous))
	}

	return strings.TrimSpace(reply)
}

// fallbackResponse rotates through the canned replies by dialogue position
func fallbackResponse(previousCount int) string {
	return fallbackResponses[previousCount%len(fallbackResponses)]
}

// buildPrompt assembles the claim context and recent dialogue for the provider
func buildPrompt(claim *fraud.ClaimInfo, docs []fraud.ClaimDocument, previous []Question, userMessage string) string {
	var b strings.Builder

	description := claim.Description
	if description == "" {
		description = "No description provided"
	}

	b.WriteString("Claim Context:\n")
	fmt.Fprintf(&b, "Claim Type: %s\n", claim.ClaimType)
	fmt.Fprintf(&b, "Incident Date: %s\n", claim.IncidentDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "\nDocuments uploaded: %d\n", len(docs))
	for _, doc := range docs {
		fmt.Fprintf(&b, "- %s: %s\n", doc.DocumentType, doc.Filename)
	}

	if len(previous) > 0 {
		b.WriteString("\nPrevious Q&A:\n")
		for _, q := range previous {
			fmt.Fprintf(&b, "User: %s\n", q.UserMessage)
			fmt.Fprintf(&b, "Assistant: %s\n", q.AIResponse)
		}
	}

	fmt.Fprintf(&b, "\nUser: %s\nAssistant:", userMessage)

	return b.String()
}

// extractFraudIndicators maps keyword hits in the reply to fixed indicator strings
func extractFraudIndicators(text string) []string {
	lower := strings.ToLower(text)

	indicators := []string{}
	// fixed iteration order so responses are deterministic
	for _, keyword := range []string{"inconsistency", "suspicious", "unusual", "delay", "missing"} {
		if strings.Contains(lower, keyword) {
			indicators = append(indicators, fraudKeywords[keyword])
		}
	}
	return indicators
}

// extractFollowUps pulls up to three question sentences out of the reply
func extractFollowUps(text string) []string {
	questions := []string{}
	for _, sentence := range strings.Split(text, ".") {
		if !strings.Contains(sentence, "?") {
			continue
		}
		q := strings.TrimSpace(sentence)
		if q == "" {
			continue
		}
		if !strings.HasSuffix(q, "?") {
			q += "?"
		}
		questions = append(questions, q)
		if len(questions) == maxFollowUps {
			break
		}
	}
	return questions
}
