package policy

import (
	"time"

	"github.com/google/uuid"
)

// PolicyStatus represents the lifecycle status of a policy
type PolicyStatus string

const (
	StatusActive    PolicyStatus = "active"
	StatusSuspended PolicyStatus = "suspended"
	StatusCancelled PolicyStatus = "cancelled"
)

// Policy represents a health insurance policy
type Policy struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	PolicyNumber     string       `json:"policy_number" db:"policy_number"`
	PolicyHolderName string       `json:"policy_holder_name" db:"policy_holder_name"`
	PolicyType       string       `json:"policy_type" db:"policy_type"`
	ExpiryDate       *time.Time   `json:"expiry_date" db:"expiry_date"`
	Status           PolicyStatus `json:"status" db:"status"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
}

// VerifyPolicyRequest represents a policy verification request
type VerifyPolicyRequest struct {
	PolicyNumber string `json:"policy_number" binding:"required,min=1,max=50,policy_number"`
}

// VerifyPolicyResponse represents a policy verification result
type VerifyPolicyResponse struct {
	Valid            bool    `json:"valid"`
	PolicyNumber     string  `json:"policy_number"`
	PolicyHolderName string  `json:"policy_holder_name"`
	PolicyType       string  `json:"policy_type"`
	ExpiryDate       *string `json:"expiry_date"`
}
