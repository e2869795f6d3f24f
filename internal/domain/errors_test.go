package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestConfigurationError_Is(t *testing.T) {
	err := NewConfigurationError("top_k_final", "must be >= 1")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatal("expected *ConfigurationError")
	}
	if ce.Field != "top_k_final" {
		t.Errorf("field = %q", ce.Field)
	}
}

func TestEmbeddingError_UnwrapsCause(t *testing.T) {
	err := &EmbeddingError{Variant: 2, Err: context.DeadlineExceeded}
	if !errors.Is(err, ErrEmbedding) {
		t.Error("expected ErrEmbedding")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected cause to be reachable")
	}
}

func TestBackendUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewBackendUnavailable(BackendVectorIndex, cause)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Error("expected ErrBackendUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause")
	}
	if !strings.Contains(err.Error(), BackendVectorIndex) {
		t.Errorf("message should name backend: %s", err.Error())
	}

	bare := NewBackendUnavailable(BackendTitleIndex, nil)
	if !errors.Is(bare, ErrBackendUnavailable) {
		t.Error("expected ErrBackendUnavailable without cause")
	}
}

func TestRetrievalError(t *testing.T) {
	err := &RetrievalError{Failures: []*EmbeddingError{
		{Variant: 0, Err: errors.New("boom")},
		{Variant: 1, Err: context.DeadlineExceeded},
	}}
	if !errors.Is(err, ErrRetrieval) {
		t.Error("expected ErrRetrieval")
	}
	if !strings.Contains(err.Error(), "all 2 variants failed") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
