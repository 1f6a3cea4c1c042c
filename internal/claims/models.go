package claims

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus represents the review status of a claim
type ClaimStatus string

const (
	StatusPending     ClaimStatus = "pending"
	StatusUnderReview ClaimStatus = "under_review"
	StatusApproved    ClaimStatus = "approved"
	StatusRejected    ClaimStatus = "rejected"
)

// Claim represents an insurance claim
type Claim struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	PolicyNumber   string      `json:"policy_number" db:"policy_number"`
	ClaimType      string      `json:"claim_type" db:"claim_type"`
	IncidentDate   time.Time   `json:"incident_date" db:"incident_date"`
	Description    *string     `json:"description" db:"description"`
	Status         ClaimStatus `json:"status" db:"status"`
	FraudScore     *float64    `json:"fraud_score" db:"fraud_score"`
	FraudRiskLevel *string     `json:"fraud_risk_level" db:"fraud_risk_level"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateClaimRequest represents a claim submission
type CreateClaimRequest struct {
	PolicyNumber string    `json:"policy_number" binding:"required,min=1,max=50,policy_number"`
	ClaimType    string    `json:"claim_type" binding:"required,claim_type"`
	IncidentDate time.Time `json:"incident_date" binding:"required"`
	Description  *string   `json:"description" binding:"omitempty,max=5000"`
}

// UpdateStatusRequest represents a claim status change
type UpdateStatusRequest struct {
	Status ClaimStatus `json:"status" binding:"required,claim_status"`
	Notes  *string     `json:"notes" binding:"omitempty,max=2000"`
}

// DocumentSummary is the abbreviated document listing embedded in claim responses
type DocumentSummary struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	DocumentType string    `json:"document_type"`
}

// ClaimDetailResponse is a claim with its documents and dialogue count
type ClaimDetailResponse struct {
	Claim
	Documents      []DocumentSummary `json:"documents"`
	QuestionsCount int               `json:"questions_count"`
}

// ListClaimsFilter narrows claim listings
type ListClaimsFilter struct {
	PolicyNumber string
	Status       string
}

// ClaimsListResponse is the list envelope
type ClaimsListResponse struct {
	Claims []Claim `json:"claims"`
	Total  int     `json:"total"`
}
