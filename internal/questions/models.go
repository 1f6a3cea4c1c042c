package questions

import (
	"time"

	"github.com/google/uuid"
)

// Question represents one exchange in the claim follow-up dialogue
type Question struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ClaimID           uuid.UUID `json:"claim_id" db:"claim_id"`
	UserMessage       string    `json:"user_message" db:"user_message"`
	AIResponse        string    `json:"ai_response" db:"ai_response"`
	IsFraudIndicative bool      `json:"is_fraud_indicative" db:"is_fraud_indicative"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// AskQuestionRequest represents a claimant message
type AskQuestionRequest struct {
	UserMessage string `json:"user_message" binding:"required,min=1,max=2000"`
}

// QuestionResponse is the assistant's reply with parsed artifacts
type QuestionResponse struct {
	AIMessage         string   `json:"ai_message"`
	FollowUpQuestions []string `json:"follow_up_questions"`
	FraudIndicators   []string `json:"fraud_indicators"`
}
