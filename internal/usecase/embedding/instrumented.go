package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/metrics"
)

// DefaultMaxAPIBatchSize is the largest batch sent in one provider request.
const DefaultMaxAPIBatchSize = 256

// InstrumentedEmbedder logs every provider call, splits large batches and
// feeds the per-call usage collector. Request counters live in the transport.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	maxBatch int
	logger   *zap.Logger
}

// Option tunes an InstrumentedEmbedder.
type Option func(*InstrumentedEmbedder)

// WithMaxBatch caps texts per provider request. Non-positive values are ignored.
func WithMaxBatch(n int) Option {
	return func(e *InstrumentedEmbedder) {
		if n > 0 {
			e.maxBatch = n
		}
	}
}

// NewInstrumentedEmbedder wraps inner.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string, logger *zap.Logger, opts ...Option,
) *InstrumentedEmbedder {
	e := &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		maxBatch: DefaultMaxAPIBatchSize,
		logger:   logger.With(zap.String("provider", provider), zap.String("model", model)),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Embed delegates one text.
func (e *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	res, err := e.inner.Embed(ctx, text)
	if err != nil {
		e.logger.Error("Embedding request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	e.logger.Debug("Embedding request completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res, nil
}

// BatchEmbed sends texts in chunks of at most maxBatch, preserving order.
// Each chunk counts as one call in the usage collector.
func (e *InstrumentedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	start := time.Now()
	usage := domain.UsageFromContext(ctx)
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, 0, len(texts))}

	for lo := 0; lo < len(texts); lo += e.maxBatch {
		chunk := texts[lo:min(lo+e.maxBatch, len(texts))]

		res, err := domain.BatchEmbed(ctx, e.inner, chunk)
		if err != nil {
			e.logger.Error("Batch embedding request failed",
				zap.Int("chunk_offset", lo),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed [%d:%d]: %w", lo, lo+len(chunk), err)
		}

		metrics.EmbeddingBatchSize.WithLabelValues(e.provider, e.model).Observe(float64(len(chunk)))
		usage.AddTokens(res.TotalTokens)
		out.Embeddings = append(out.Embeddings, res.Embeddings...)
		out.PromptTokens += res.PromptTokens
		out.TotalTokens += res.TotalTokens
	}

	e.logger.Debug("Batch embedding completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("texts", len(texts)),
		zap.Int("total_tokens", out.TotalTokens),
	)
	return out, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (e *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
