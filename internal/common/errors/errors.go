// Package errors provides standardized error handling for the rating pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeMalformedResponse   ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodePersistenceFailed   ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeDuplicateUser       ErrorCode = "DUPLICATE_USER"
	ErrCodeCacheFailed         ErrorCode = "CACHE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewProviderUnavailableError signals that every fetch attempt against a
// provider endpoint was exhausted. Callers treat the provider as absent for
// this run; the error never crosses the adapter boundary.
func NewProviderUnavailableError(provider, url string, err error) *StandardError {
	details := fmt.Sprintf("url: %s", url)
	if err != nil {
		details = fmt.Sprintf("url: %s, error: %s", url, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   fmt.Sprintf("%s is unavailable", provider),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError signals a response that parsed as JSON but is
// missing an expected field. The raw shape goes into Details for diagnosis.
func NewMalformedResponseError(provider, field, shape string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   fmt.Sprintf("%s response missing expected field", provider),
		Details:   fmt.Sprintf("field: %s, shape: %s", field, shape),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable lookup error.
func NewUserNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceFailedError creates a retryable storage error.
func NewPersistenceFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Database operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailedError creates a retryable cache error.
func NewCacheFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailed,
		Message:   "Cache operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}
