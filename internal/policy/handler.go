package policy

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/validation"
)

// Handler handles policy HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new policy handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// VerifyPolicy verifies a policy number
// POST /api/v1/policies/verify
func (h *Handler) VerifyPolicy(c *gin.Context) {
	var req VerifyPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.ErrorResponseWithDetails(c, http.StatusBadRequest, "invalid request body", validation.NewValidationError(validationErrs))
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.VerifyPolicy(c.Request.Context(), req.PolicyNumber)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to verify policy")
		return
	}

	common.SuccessResponse(c, resp)
}

// RegisterRoutes registers policy routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/policies/verify", h.VerifyPolicy)
}
