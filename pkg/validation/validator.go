package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var policyNumberPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var claimTypes = map[string]bool{
	"Medical Treatment": true,
	"Hospitalization":   true,
	"Surgery":           true,
	"Emergency":         true,
	"Prescription":      true,
	"Other":             true,
}

var claimStatuses = map[string]bool{
	"pending":      true,
	"under_review": true,
	"approved":     true,
	"rejected":     true,
}

// RegisterCustomValidators registers domain validators on gin's binding validator
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("policy_number", func(fl validator.FieldLevel) bool {
		return policyNumberPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("claim_type", func(fl validator.FieldLevel) bool {
		return claimTypes[fl.Field().String()]
	})
	_ = v.RegisterValidation("claim_status", func(fl validator.FieldLevel) bool {
		return claimStatuses[fl.Field().String()]
	})
}
