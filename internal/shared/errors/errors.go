// Package errors provides application-level error types and utilities.
// Every type maps to one HTTP status so handlers can render it directly.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeMalformedInput  ErrorType = "malformed_input"
	ErrorTypePolicyViolation ErrorType = "policy_violation"
	ErrorTypeDuplicate       ErrorType = "duplicate_attempt"
	ErrorTypeTransport       ErrorType = "transport_error"
	ErrorTypeSyncInProgress  ErrorType = "sync_in_progress"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeRateLimited     ErrorType = "rate_limited"
	ErrorTypeInternal        ErrorType = "internal_error"
)

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:      http.StatusBadRequest,
	ErrorTypeMalformedInput:  http.StatusBadRequest,
	ErrorTypePolicyViolation: http.StatusUnprocessableEntity,
	ErrorTypeDuplicate:       http.StatusConflict,
	ErrorTypeTransport:       http.StatusBadGateway,
	ErrorTypeSyncInProgress:  http.StatusConflict,
	ErrorTypeUnauthorized:    http.StatusUnauthorized,
	ErrorTypeNotFound:        http.StatusNotFound,
	ErrorTypeRateLimited:     http.StatusTooManyRequests,
	ErrorTypeInternal:        http.StatusInternalServerError,
}

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    statusByType[t],
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, message, details)
}

// NewMalformedInputError is for external input that could not be parsed.
func NewMalformedInputError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeMalformedInput, message, details)
}

func NewPolicyViolationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePolicyViolation, message, details)
}

// NewDuplicateError reports a second local attempt for the same student and session.
func NewDuplicateError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeDuplicate, message, details)
}

// NewTransportError reports a failed call to the remote authority.
func NewTransportError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTransport, message, details)
}

func NewSyncInProgressError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeSyncInProgress, message, details)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, message, details)
}

func NewRateLimitedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeRateLimited, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsValidationError(err error) bool  { return isType(err, ErrorTypeValidation) }
func IsDuplicateAttempt(err error) bool { return isType(err, ErrorTypeDuplicate) }
func IsTransportError(err error) bool   { return isType(err, ErrorTypeTransport) }
func IsUnauthorized(err error) bool     { return isType(err, ErrorTypeUnauthorized) }
func IsNotFoundError(err error) bool    { return isType(err, ErrorTypeNotFound) }
func IsSyncInProgress(err error) bool   { return isType(err, ErrorTypeSyncInProgress) }

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "violates unique constraint") {
		return true
	}
	// SQLite
	return strings.Contains(errStr, "UNIQUE constraint failed")
}
