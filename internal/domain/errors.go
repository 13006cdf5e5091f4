package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a caller-supplied parameter outside its allowed range.
	ErrValidation = errors.New("validation failed")
	// ErrUpstreamUnavailable signals that the embedding provider or retrieval engine failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamTimeout signals that an upstream call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// Upstream names used in UpstreamError.
const (
	UpstreamEmbedding = "embedding"
	UpstreamRetrieval = "retrieval"
)

// UpstreamError reports which external dependency failed and during which operation.
// It unwraps to ErrUpstreamUnavailable and to the underlying cause.
type UpstreamError struct {
	Upstream string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrUpstreamUnavailable.Error(), e.Upstream, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstreamUnavailable, e.Err} }

// NewUpstreamError wraps err as a failure of the named upstream.
func NewUpstreamError(upstream, op string, err error) error {
	return &UpstreamError{Upstream: upstream, Op: op, Err: err}
}

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
