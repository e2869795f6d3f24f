package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a malformed request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrConfiguration signals invalid matching parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrEmbedding signals a failed embedding of a single query variant.
	ErrEmbedding = errors.New("embedding error")
	// ErrBackendUnavailable signals an unreachable vector or title index.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrRetrieval signals that every query variant failed.
	ErrRetrieval = errors.New("retrieval error")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrExpansionProviderError signals a paraphrase provider failure.
	ErrExpansionProviderError = errors.New("expansion provider error")
)

// Backend names reported in BackendUnavailableError.
const (
	BackendVectorIndex = "vector_index"
	BackendTitleIndex  = "title_index"
)

// ConfigurationError rejects matching parameters before any external call.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration.Error(), e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError creates a configuration error for the given field.
func NewConfigurationError(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}

// EmbeddingError records a failed variant. It is a soft failure unless every variant fails.
type EmbeddingError struct {
	Variant int
	Text    string
	Err     error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("%s: variant %d: %v", ErrEmbedding.Error(), e.Variant, e.Err)
}

// Unwrap exposes both the sentinel and the cause (timeouts, provider errors).
func (e *EmbeddingError) Unwrap() []error { return []error{ErrEmbedding, e.Err} }

// BackendUnavailableError is fatal for the current call and never retried internally.
type BackendUnavailableError struct {
	Backend string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrBackendUnavailable.Error(), e.Backend)
	}
	return fmt.Sprintf("%s: %s: %v", ErrBackendUnavailable.Error(), e.Backend, e.Err)
}

func (e *BackendUnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBackendUnavailable}
	}
	return []error{ErrBackendUnavailable, e.Err}
}

// NewBackendUnavailable wraps err as an unreachable backend.
func NewBackendUnavailable(backend string, err error) error {
	return &BackendUnavailableError{Backend: backend, Err: err}
}

// RetrievalError is returned when no variant produced candidates.
type RetrievalError struct {
	Failures []*EmbeddingError
}

func (e *RetrievalError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("variant %d: %v", f.Variant, f.Err))
	}
	return fmt.Sprintf("%s: all %d variants failed (%s)",
		ErrRetrieval.Error(), len(e.Failures), strings.Join(parts, "; "))
}

func (e *RetrievalError) Unwrap() error { return ErrRetrieval }
