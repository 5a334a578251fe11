package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageBody is the JSON shape of responses that carry no record.
type MessageBody struct {
	Message string `json:"message"`
}

// Success sends data with 200 OK.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends the created resource with 201 Created.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a plain confirmation with 200 OK.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error sends a standard error response. detail is omitted when empty.
func Error(c *gin.Context, statusCode int, message, detail string) {
	c.JSON(statusCode, ErrorBody{
		Message: message,
		Error:   detail,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage, "")
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage, "")
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage, "")
}

// InternalServerError sends a 500 Internal Server Error response.
// detail is only filled outside production.
func InternalServerError(c *gin.Context, detail string) {
	Error(c, http.StatusInternalServerError, "Internal server error", detail)
}
