package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEmptyInput signals blank text to embed or an empty vector set to combine.
	ErrEmptyInput = errors.New("empty input")
	// ErrDimensionMismatch signals vectors of unequal length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrEmbeddingUnavailable signals that no embedding credential is configured.
	ErrEmbeddingUnavailable = errors.New("embedding provider not configured")
	// ErrLLMProvider signals a completion provider failure.
	ErrLLMProvider = errors.New("llm provider error")
	// ErrVectorIndex signals a similarity query failure.
	ErrVectorIndex = errors.New("vector index error")
	// ErrValidation signals a malformed request.
	ErrValidation = errors.New("validation failed")
)

// EmbeddingProviderError carries the HTTP status and body of a failed embedding call.
type EmbeddingProviderError struct {
	Status int
	Body   string
}

func (e *EmbeddingProviderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", ErrEmbeddingProvider.Error(), e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrEmbeddingProvider.Error(), e.Status, e.Body)
}

func (e *EmbeddingProviderError) Unwrap() error { return ErrEmbeddingProvider }

// NewEmbeddingProviderError creates an embedding provider error.
func NewEmbeddingProviderError(status int, body string) error {
	return &EmbeddingProviderError{Status: status, Body: body}
}

// ValidationError names the offending request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DimensionMismatchError reports the first vector whose length differs from the first one.
type DimensionMismatchError struct {
	Index    int
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: vector %d has %d dimensions, expected %d",
		ErrDimensionMismatch.Error(), e.Index, e.Got, e.Expected)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }
