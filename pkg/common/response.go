package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Meta holds pagination metadata for list responses
type Meta struct {
	Total    int `json:"total"`
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

// APIResponse is the standard success envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError is the standard error envelope
type APIError struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse sends a 200 response with the standard envelope
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// SuccessResponseWithMeta sends a 200 response with pagination metadata
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta Meta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// CreatedResponse sends a 201 response with the standard envelope
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// ErrorResponse sends an error response with the given status code
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{Success: false, Error: message})
}

// ErrorResponseWithDetails sends an error response carrying field-level details
func ErrorResponseWithDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, APIError{Success: false, Error: message, Details: details})
}

// AppErrorResponse sends an error response derived from an AppError
func AppErrorResponse(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		c.JSON(appErr.Status, APIError{Success: false, Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, APIError{Success: false, Error: "internal server error"})
}
