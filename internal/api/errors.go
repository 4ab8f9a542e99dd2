package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ericfisherdev/volunteer-tracker/internal/domain"
)

// ErrorSanitizer maps errors to client responses without leaking internals.
// Domain errors keep their type and code so callers can react distinctly;
// everything else collapses to a generic 500. Full detail goes to the log,
// keyed by correlation ID.
type ErrorSanitizer struct {
	logger *slog.Logger
}

// NewErrorSanitizer creates a new error sanitizer with structured logging
func NewErrorSanitizer(logger *slog.Logger) *ErrorSanitizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorSanitizer{logger: logger}
}

// SanitizedErrorResponse writes the sanitized error to the client and logs
// the detailed one server-side.
func (s *ErrorSanitizer) SanitizedErrorResponse(c *gin.Context, err error) {
	correlationID := s.getOrCreateCorrelationID(c)

	var domainErr *domain.DomainError
	isDomainError := errors.As(err, &domainErr)

	s.logError(c, err, correlationID, domainErr)

	statusCode, response := s.clientResponse(domainErr, isDomainError, correlationID)
	c.JSON(statusCode, response)
}

// getOrCreateCorrelationID reuses the request's correlation ID or mints one.
func (s *ErrorSanitizer) getOrCreateCorrelationID(c *gin.Context) string {
	if id, exists := c.Get("correlation_id"); exists {
		if strID, ok := id.(string); ok {
			return strID
		}
	}

	if id := c.GetHeader("X-Correlation-ID"); id != "" {
		c.Set("correlation_id", id)
		return id
	}

	correlationID := uuid.New().String()
	c.Set("correlation_id", correlationID)
	c.Header("X-Correlation-ID", correlationID)
	return correlationID
}

func (s *ErrorSanitizer) logError(c *gin.Context, err error, correlationID string, domainErr *domain.DomainError) {
	args := []any{
		slog.String("correlation_id", correlationID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("remote_addr", c.ClientIP()),
	}

	if domainErr != nil {
		args = append(args,
			slog.String("error_type", string(domainErr.Type)),
			slog.String("error_code", domainErr.Code),
			slog.String("error_message", domainErr.Message),
		)
		if domainErr.Cause != nil {
			args = append(args, slog.String("underlying_error", domainErr.Cause.Error()))
		}
		s.logger.Error("request failed", args...)
		return
	}

	args = append(args, slog.String("error", err.Error()))
	s.logger.Error("request failed with unexpected error", args...)
}

// clientResponse builds the response body the caller sees. Domain error
// messages are authored constants, safe to expose; causes are not.
func (s *ErrorSanitizer) clientResponse(domainErr *domain.DomainError, isDomainError bool, correlationID string) (int, gin.H) {
	if isDomainError && domainErr.Type != domain.InternalError {
		errBody := gin.H{
			"type":    domainErr.Type,
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}
		if domainErr.Details != nil {
			if field, ok := domainErr.Details["field"]; ok {
				errBody["field"] = field
			}
		}
		return statusForErrorType(domainErr.Type), gin.H{
			"success":        false,
			"correlation_id": correlationID,
			"error":          errBody,
		}
	}

	return http.StatusInternalServerError, gin.H{
		"success":        false,
		"correlation_id": correlationID,
		"error": gin.H{
			"type":    "INTERNAL_ERROR",
			"code":    "SYSTEM_ERROR",
			"message": "An unexpected error occurred. Please try again later.",
		},
	}
}

// statusForErrorType maps domain error types to HTTP status codes
func statusForErrorType(errorType domain.ErrorType) int {
	switch errorType {
	case domain.ValidationError:
		return http.StatusBadRequest
	case domain.NotFoundError:
		return http.StatusNotFound
	case domain.ConflictError:
		return http.StatusConflict
	case domain.AuthenticationError:
		return http.StatusUnauthorized
	case domain.ExternalServiceError:
		return http.StatusBadGateway
	case domain.InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
