// Package api provides the HTTP handlers and shared response utilities.
//
// All handlers report failures through SanitizedErrorResponse for consistent
// status mapping, structured logging, and correlation IDs. Internal error
// detail never reaches the client.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	defaultSanitizer *ErrorSanitizer
	sanitizerOnce    sync.Once
)

// getDefaultSanitizer creates a singleton error sanitizer with structured logging
func getDefaultSanitizer() *ErrorSanitizer {
	sanitizerOnce.Do(func() {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		defaultSanitizer = NewErrorSanitizer(logger)
	})
	return defaultSanitizer
}

// SanitizedErrorResponse handles errors with sanitization and structured logging
func SanitizedErrorResponse(c *gin.Context, err error) {
	getDefaultSanitizer().SanitizedErrorResponse(c, err)
}

// SuccessResponse returns a standardized success response.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// CreatedResponse returns a standardized created response.
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}
