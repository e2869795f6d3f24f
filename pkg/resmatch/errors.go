package resmatch

import "github.com/OmarAli141/resumes-comparison/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrConfiguration          = domain.ErrConfiguration
	ErrEmbedding              = domain.ErrEmbedding
	ErrBackendUnavailable     = domain.ErrBackendUnavailable
	ErrRetrieval              = domain.ErrRetrieval
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
