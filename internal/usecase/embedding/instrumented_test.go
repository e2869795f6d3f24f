package embedding

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

// recorder embeds every text as a one-element vector of its length.
type recorder struct {
	chunks   [][]string
	singles  int
	failAt   int // chunk number that fails; 0 disables
	embedErr error
}

func (r *recorder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	r.singles++
	if r.embedErr != nil {
		return domain.EmbeddingResult{}, r.embedErr
	}
	return domain.EmbeddingResult{Embedding: []float32{float32(len(text))}, PromptTokens: 1, TotalTokens: 1}, nil
}

func (r *recorder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	r.chunks = append(r.chunks, texts)
	if r.failAt == len(r.chunks) {
		return domain.BatchEmbeddingResult{}, errors.New("provider 503")
	}
	out := domain.BatchEmbeddingResult{PromptTokens: len(texts), TotalTokens: len(texts)}
	for _, t := range texts {
		out.Embeddings = append(out.Embeddings, []float32{float32(len(t))})
	}
	return out, nil
}

// singleOnly hides BatchEmbed so the domain fallback is used.
type singleOnly struct{ r *recorder }

func (s singleOnly) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return s.r.Embed(ctx, text)
}

func TestEmbed_RecordsUsage(t *testing.T) {
	e := NewInstrumentedEmbedder(&recorder{}, "openai", "m", zap.NewNop())
	ctx, usage := domain.NewContextWithUsage(context.Background())

	res, err := e.Embed(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, res.Embedding)
	assert.Equal(t, 1, usage.Calls())
	assert.Equal(t, 1, usage.TotalTokens())
}

func TestEmbed_ErrorIsLoggedAndWrapped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cause := errors.New("boom")
	e := NewInstrumentedEmbedder(&recorder{embedErr: cause}, "openai", "m", zap.New(core))

	_, err := e.Embed(context.Background(), "x")
	require.ErrorIs(t, err, cause)

	entries := logs.FilterMessage("Embedding request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "openai", entries[0].ContextMap()["provider"])
}

func TestBatchEmbed_ChunksPreserveOrder(t *testing.T) {
	rec := &recorder{}
	e := NewInstrumentedEmbedder(rec, "openai", "m", zap.NewNop(), WithMaxBatch(2))
	ctx, usage := domain.NewContextWithUsage(context.Background())

	res, err := e.BatchEmbed(ctx, []string{"a", "bb", "ccc", "dddd", "eeeee"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "bb"}, {"ccc", "dddd"}, {"eeeee"}}, rec.chunks)
	assert.Equal(t, [][]float32{{1}, {2}, {3}, {4}, {5}}, res.Embeddings)
	assert.Equal(t, 5, res.TotalTokens)
	assert.Equal(t, 3, usage.Calls())
}

func TestBatchEmbed_ChunkFailure(t *testing.T) {
	rec := &recorder{failAt: 2}
	e := NewInstrumentedEmbedder(rec, "openai", "m", zap.NewNop(), WithMaxBatch(1))

	_, err := e.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1:2]")
	assert.Len(t, rec.chunks, 2, "no chunks after the failure")
}

func TestBatchEmbed_FallsBackToSingleCalls(t *testing.T) {
	rec := &recorder{}
	e := NewInstrumentedEmbedder(singleOnly{rec}, "openai", "m", zap.NewNop())

	res, err := e.BatchEmbed(context.Background(), []string{"x", "yy"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.singles)
	assert.Equal(t, [][]float32{{1}, {2}}, res.Embeddings)
}

func TestBatchEmbed_Empty(t *testing.T) {
	rec := &recorder{}
	e := NewInstrumentedEmbedder(rec, "openai", "m", zap.NewNop())

	res, err := e.BatchEmbed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, res.Embeddings)
	assert.Empty(t, rec.chunks)
}

func TestWithMaxBatch_IgnoresNonPositive(t *testing.T) {
	e := NewInstrumentedEmbedder(&recorder{}, "p", "m", zap.NewNop(), WithMaxBatch(0))
	assert.Equal(t, DefaultMaxAPIBatchSize, e.maxBatch)
}

func TestHealthCheck_NoChecker(t *testing.T) {
	e := NewInstrumentedEmbedder(&recorder{}, "p", "m", zap.NewNop())
	assert.NoError(t, e.HealthCheck(context.Background()))
}
