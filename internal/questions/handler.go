package questions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medguard/claim-portal/pkg/common"
)

// Handler handles question HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new question handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AskQuestion generates the next dialogue reply for a claim
// POST /api/v1/claims/:id/questions
func (h *Handler) AskQuestion(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Ask(c.Request.Context(), claimID, req.UserMessage)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp)
}

// RegisterRoutes registers question routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/claims/:id/questions", h.AskQuestion)
}
