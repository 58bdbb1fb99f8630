package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation signals a malformed search request.
	ErrValidation = errors.New("validation failed")
	// ErrCandidateNotFound signals a missing candidate document.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrRetrievalFailed signals that the vector retrieval stage failed.
	// Fatal for the request: there is no candidate pool to rank.
	ErrRetrievalFailed = errors.New("candidate retrieval failed")
	// ErrRerankFailed signals that the external reranker call failed.
	ErrRerankFailed = errors.New("rerank failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRateLimited signals a rate limit hit on an upstream provider.
	ErrRateLimited = errors.New("rate limited")
	// ErrSearchAborted signals that the request was cancelled mid-pipeline.
	// A partially scored pool is never returned as a ranking.
	ErrSearchAborted = errors.New("search aborted")
)

// ValidationError wraps ErrValidation with the offending field paths.
type ValidationError struct {
	Fields []FieldError
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Path, f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for the given field paths.
func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}
