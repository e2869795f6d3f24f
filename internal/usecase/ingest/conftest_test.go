package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// --- Mocks ---

type mockEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	failOn  string // any batch containing this text fails
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := m.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: res.Embeddings[0]}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, texts)
	for _, t := range texts {
		if m.failOn != "" && strings.Contains(t, m.failOn) {
			return domain.BatchEmbeddingResult{}, errors.New("provider rejected input")
		}
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

type mockIndex struct {
	ensured   []string
	reset     []string
	upserts   map[string][][]vectorindex.Entry
	ensureErr error
	upsertErr error
}

func newMockIndex() *mockIndex {
	return &mockIndex{upserts: make(map[string][][]vectorindex.Entry)}
}

func (m *mockIndex) EnsureIndex(_ context.Context, c vectorindex.Collection) error {
	m.ensured = append(m.ensured, c.Name)
	return m.ensureErr
}

func (m *mockIndex) Reset(_ context.Context, c vectorindex.Collection) error {
	m.reset = append(m.reset, c.Name)
	return m.ensureErr
}

func (m *mockIndex) Upsert(_ context.Context, c vectorindex.Collection, entries []vectorindex.Entry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts[c.Name] = append(m.upserts[c.Name], entries)
	return nil
}

func (m *mockIndex) entries(collection string) []vectorindex.Entry {
	var out []vectorindex.Entry
	for _, batch := range m.upserts[collection] {
		out = append(out, batch...)
	}
	return out
}

type mockSnapshots struct {
	saved []*title.Snapshot
	err   error
}

func (m *mockSnapshots) Save(_ context.Context, snap *title.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, snap)
	return nil
}

type mockPublisher struct {
	published []*title.Snapshot
}

func (m *mockPublisher) Publish(snap *title.Snapshot) {
	m.published = append(m.published, snap)
}
