package resmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
)

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
// Optional: ingestion uses it when the Embedder also implements it.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// embedderAdapter exposes a caller's Embedder to the matcher. A non-zero dim
// rejects vectors the index could not store.
type embedderAdapter struct {
	inner Embedder
	dim   int
}

func (a *embedderAdapter) checkDim(v []float32) error {
	if a.dim > 0 && len(v) != a.dim {
		return fmt.Errorf("embedder returned %d dims, index expects %d: %w",
			len(v), a.dim, domain.ErrVectorDimMismatch)
	}
	return nil
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	if err := a.checkDim(r.Embedding); err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchEmbed(ctx, embedOnly{a}, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	if len(r.Embeddings) != len(texts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: got %d vectors for %d texts: %w",
			len(r.Embeddings), len(texts), domain.ErrEmbeddingProviderError)
	}
	for i, v := range r.Embeddings {
		if err := a.checkDim(v); err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed [%d]: %w", i, err)
		}
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// embedOnly hides BatchEmbed so domain.BatchEmbed falls back to single calls.
type embedOnly struct{ a *embedderAdapter }

func (e embedOnly) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return e.a.Embed(ctx, text)
}

// noopEmbedder returns an error on every call (used when no embedder is configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New("resmatch: embedder not configured (use WithEmbedder)")
}
