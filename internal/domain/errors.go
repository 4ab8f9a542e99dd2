package domain

import (
	"errors"
	"fmt"
)

// ErrorType classifies a domain error for transport mapping.
type ErrorType string

const (
	// ValidationError represents caller-supplied input out of policy bounds
	ValidationError ErrorType = "VALIDATION_ERROR"
	// NotFoundError represents a required resource that does not exist
	NotFoundError ErrorType = "NOT_FOUND_ERROR"
	// ConflictError represents a uniqueness or state conflict
	ConflictError ErrorType = "CONFLICT_ERROR"
	// AuthenticationError represents token or credential failures
	AuthenticationError ErrorType = "AUTHENTICATION_ERROR"
	// InternalError represents internal system errors
	InternalError ErrorType = "INTERNAL_ERROR"
	// ExternalServiceError represents provider-side failures
	ExternalServiceError ErrorType = "EXTERNAL_SERVICE_ERROR"
)

// Error codes for the link/log workflow. Every failure a caller must react to
// distinctly carries one of these codes.
const (
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeTokenExpired   = "TOKEN_EXPIRED"
	CodeExchangeFailed = "EXCHANGE_FAILED"
	CodeNotLinked      = "NOT_LINKED"
	CodeProviderError  = "PROVIDER_ERROR"
	CodeDuplicateLog   = "DUPLICATE_LOG"
	CodeRateLimited    = "RATE_LIMITED"
)

// DomainError is a domain-specific error with a stable type and code.
type DomainError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string, details map[string]interface{}) *DomainError {
	return &DomainError{
		Type:    ValidationError,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{
		Type:    NotFoundError,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(code, message string) *DomainError {
	return &DomainError{
		Type:    ConflictError,
		Code:    code,
		Message: message,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(code, message string) *DomainError {
	return &DomainError{
		Type:    AuthenticationError,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *DomainError {
	return &DomainError{
		Type:    InternalError,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewExternalServiceError creates a new external service error
func NewExternalServiceError(code, message string, cause error) *DomainError {
	return &DomainError{
		Type:    ExternalServiceError,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsNotFound reports whether err is a not-found DomainError.
func IsNotFound(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == NotFoundError
	}
	return false
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
