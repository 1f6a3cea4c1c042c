package claims

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/validation"
)

// Handler handles claim HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new claim handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateClaim submits a new claim
// POST /api/v1/claims
func (h *Handler) CreateClaim(c *gin.Context) {
	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.ErrorResponseWithDetails(c, http.StatusBadRequest, "invalid request body", validation.NewValidationError(validationErrs))
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, claim)
}

// GetClaim retrieves a claim with its documents and question count
// GET /api/v1/claims/:id
func (h *Handler) GetClaim(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid claim id")
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), claimID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, detail)
}

// ListClaims retrieves claims with optional policy_number and status filters
// GET /api/v1/claims
func (h *Handler) ListClaims(c *gin.Context) {
	filter := ListClaimsFilter{
		PolicyNumber: c.Query("policy_number"),
		Status:       c.Query("status"),
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponseWithMeta(c, list.Claims, common.Meta{Total: list.Total})
}

// ListPolicyClaims retrieves all claims filed against one policy
// GET /api/v1/policies/:policy_number/claims
func (h *Handler) ListPolicyClaims(c *gin.Context) {
	policyNumber := c.Param("policy_number")
	if policyNumber == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid policy number")
		return
	}

	list, err := h.service.ListByPolicy(c.Request.Context(), policyNumber)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponseWithMeta(c, list.Claims, common.Meta{Total: list.Total})
}

// UpdateClaimStatus changes a claim's review status
// PATCH /api/v1/claims/:id/status
func (h *Handler) UpdateClaimStatus(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.ErrorResponseWithDetails(c, http.StatusBadRequest, "invalid request body", validation.NewValidationError(validationErrs))
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := h.service.UpdateStatus(c.Request.Context(), claimID, req.Status)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, claim)
}

// RegisterRoutes registers claim routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/claims", h.CreateClaim)
	rg.GET("/claims", h.ListClaims)
	rg.GET("/claims/:id", h.GetClaim)
	rg.PATCH("/claims/:id/status", h.UpdateClaimStatus)
	rg.GET("/policies/:policy_number/claims", h.ListPolicyClaims)
}
