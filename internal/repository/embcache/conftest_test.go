package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/db"
	"github.com/OmarAli141/resumes-comparison/internal/domain"
)

type fakeEmbedder struct {
	vec       []float32
	tokens    int
	err       error
	batchErr  error
	batches   [][]string
	singleHit int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	f.singleHit++
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: f.vec, PromptTokens: f.tokens, TotalTokens: f.tokens}, nil
}

func (f *fakeEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	f.batches = append(f.batches, texts)
	if f.batchErr != nil {
		return domain.BatchEmbeddingResult{}, f.batchErr
	}
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i := range texts {
		out.Embeddings[i] = f.vec
	}
	out.PromptTokens = f.tokens * len(texts)
	out.TotalTokens = f.tokens * len(texts)
	return out, nil
}

// memStore is an in-memory KV with optional injected failures.
type memStore struct {
	data     map[string][]byte
	ttls     map[string]time.Duration
	readErr  error
	writeErr error
	mgets    int
	sets     int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mgets++
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) SetMulti(_ context.Context, items []db.KVItem, ttl time.Duration) error {
	m.sets += len(items)
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, it := range items {
		m.data[it.Key] = it.Value
		m.ttls[it.Key] = ttl
	}
	return nil
}

func newCache(t *testing.T, inner domain.Embedder, ttl time.Duration) (*CachedEmbedder, *memStore) {
	t.Helper()
	st := newMemStore()
	return New(inner, st, Options{KeyPrefix: "resmatch:", Model: "text-embedding-3-small", TTL: ttl}, nil, zap.NewNop()), st
}
