package documents

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medguard/claim-portal/pkg/common"
	"github.com/medguard/claim-portal/pkg/middleware"
)

// Handler handles document HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new document handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UploadDocument accepts a multipart file upload for a claim
// POST /api/v1/claims/:id/documents
func (h *Handler) UploadDocument(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid claim id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to open uploaded file")
		return
	}
	defer file.Close()

	documentType := c.PostForm("document_type")
	contentType := fileHeader.Header.Get("Content-Type")

	resp, err := h.service.Upload(c.Request.Context(), claimID, fileHeader.Filename, contentType, documentType, file, fileHeader.Size)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	middleware.RecordDocumentUpload(string(resp.DocumentType))
	common.CreatedResponse(c, resp)
}

// ListDocuments retrieves all documents for a claim
// GET /api/v1/claims/:id/documents
func (h *Handler) ListDocuments(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid claim id")
		return
	}

	docs, err := h.service.ListByClaim(c.Request.Context(), claimID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponseWithMeta(c, docs, common.Meta{Total: len(docs)})
}

// RegisterRoutes registers document routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/claims/:id/documents", h.UploadDocument)
	rg.GET("/claims/:id/documents", h.ListDocuments)
}
