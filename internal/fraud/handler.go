package fraud

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/middleware"
)

// ClaimGetter resolves a claim for analysis
type ClaimGetter interface {
	GetClaimInfo(ctx context.Context, claimID uuid.UUID) (*ClaimInfo, error)
}

// Handler handles HTTP requests for fraud analysis
type Handler struct {
	service *Service
	claims  ClaimGetter
}

// NewHandler creates a new fraud handler
func NewHandler(service *Service, claims ClaimGetter) *Handler {
	return &Handler{service: service, claims: claims}
}

// AnalyzeClaim runs fraud analysis for a claim
func (h *Handler) AnalyzeClaim(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := h.claims.GetClaimInfo(c.Request.Context(), claimID)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "claim not found")
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), *claim)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "fraud analysis failed")
		return
	}

	middleware.RecordFraudAnalysis(string(result.RiskLevel))
	common.SuccessResponse(c, result)
}

// RegisterRoutes registers fraud analysis routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/claims/:id/analyze-fraud", h.AnalyzeClaim)
}
