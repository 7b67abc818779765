// Package errors provides standardized error handling for the matching engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	ErrCodeEmbeddingEmptyInput    ErrorCode = "EMBEDDING_EMPTY_INPUT"
	ErrCodeEmbeddingRateLimited   ErrorCode = "EMBEDDING_RATE_LIMITED"
	ErrCodeEmbeddingProviderError ErrorCode = "EMBEDDING_PROVIDER_ERROR"

	ErrCodeVectorSearchFailed ErrorCode = "VECTOR_SEARCH_FAILED"
	ErrCodeRFPNotFound        ErrorCode = "RFP_NOT_FOUND"

	ErrCodeTableQueryFailed     ErrorCode = "TABLE_QUERY_FAILED"
	ErrCodeSnapshotDeleteFailed ErrorCode = "SNAPSHOT_DELETE_FAILED"
	ErrCodeSnapshotInsertFailed ErrorCode = "SNAPSHOT_INSERT_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Required field validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDimensionMismatchError creates a non-retryable vector dimension error.
func NewDimensionMismatchError(lenA, lenB int) *StandardError {
	return &StandardError{
		Code:      ErrCodeDimensionMismatch,
		Message:   "Vector dimensions do not match",
		Details:   fmt.Sprintf("len(a)=%d, len(b)=%d", lenA, lenB),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingEmptyInputError creates a non-retryable empty text error.
func NewEmbeddingEmptyInputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingEmptyInput,
		Message:   "Embedding input text is empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingRateLimitedError creates a retryable rate-limit error.
func NewEmbeddingRateLimitedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingRateLimited,
		Message:   "Embedding provider rate limit hit",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewEmbeddingProviderError creates a retryable generic provider error.
func NewEmbeddingProviderError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingProviderError,
		Message:   "Embedding provider call failed",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewVectorSearchFailedError creates a retryable nearest-neighbor search error.
func NewVectorSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVectorSearchFailed,
		Message:   "Vector search query failed",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRFPNotFoundError creates a non-retryable lookup error.
func NewRFPNotFoundError(rfpID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRFPNotFound,
		Message:   "RFP not found or has no embedding",
		Details:   fmt.Sprintf("rfpId: %s", rfpID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTableQueryFailedError creates a retryable table store error.
func NewTableQueryFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTableQueryFailed,
		Message:   "Table store query failed",
		Details:   fmt.Sprintf("table: %s, error: %s", table, errDetails(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSnapshotDeleteFailedError creates a retryable snapshot delete error.
func NewSnapshotDeleteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotDeleteFailed,
		Message:   "Snapshot delete failed",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSnapshotInsertFailedError creates a retryable snapshot insert error.
func NewSnapshotInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotInsertFailed,
		Message:   "Snapshot insert failed",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf returns the ErrorCode carried by err, or "" when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// HasCode checks whether err (or any wrapped error) carries the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var stdErr *StandardError
		if errors.As(err, &stdErr) && stdErr.Code == code {
			return true
		}
		err = errors.Unwrap(err)
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
