// Package errors provides standardized error handling for the
// recommendation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeOriginUnavailable  ErrorCode = "ORIGIN_UNAVAILABLE"
	ErrCodeCacheBackend       ErrorCode = "CACHE_BACKEND_ERROR"
	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeUserLookupFailed   ErrorCode = "USER_LOOKUP_FAILED"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeResultsNotFound    ErrorCode = "RESULTS_NOT_FOUND"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
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

// NewOriginUnavailableError wraps a ranking-origin fetch failure. It is
// recovered locally via the fallback cache tier and never surfaced.
func NewOriginUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOriginUnavailable,
		Message:   "Ranking origin request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheBackendError wraps a cache read/write failure. Callers treat it as
// a miss or a no-op write.
func NewCacheBackendError(op, key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheBackend,
		Message:   "Cache backend operation failed",
		Details:   fmt.Sprintf("op: %s, key: %s, error: %s", op, key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogUnavailableError creates a retryable catalog data-access error.
func NewCatalogUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogUnavailable,
		Message:   "Catalog query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserLookupFailedError creates a retryable user-store error.
func NewUserLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserLookupFailed,
		Message:   "User lookup failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable unknown-user error.
func NewUserNotFoundError(userID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   fmt.Sprintf("userId: %d", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultsNotFoundError creates a non-retryable empty-result error.
func NewResultsNotFoundError() *StandardError {
	return &StandardError{
		Code:      ErrCodeResultsNotFound,
		Message:   "No cars matched the requested filters",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError creates a generic internal error. The wrapped detail is
// only ever logged, never returned to clients.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Could not fetch recommended cars",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
