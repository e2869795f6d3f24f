package titles

import (
	"context"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
	"github.com/OmarAli141/resumes-comparison/internal/domain/search/filter"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

type mockEmbedder struct {
	vec   []float32
	err   error
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockIndex struct {
	hits       []candidate.Candidate
	err        error
	collection string
	k          int
	filters    filter.Expression
}

func (m *mockIndex) Query(
	_ context.Context, c vectorindex.Collection, _ []float32, k int, filters filter.Expression,
) ([]candidate.Candidate, error) {
	m.collection = c.Name
	m.k = k
	m.filters = filters
	return m.hits, m.err
}

type mockSnapshotStore struct {
	snap *title.Snapshot
	err  error
}

func (m *mockSnapshotStore) LoadCurrent(_ context.Context) (*title.Snapshot, error) {
	return m.snap, m.err
}

func hit(name, seniority string, distance float64) candidate.Candidate {
	return candidate.Candidate{
		ID:       title.Canonicalize(name),
		Distance: distance,
		Content:  name,
		Metadata: map[string]string{"seniority": seniority, "category": "FINANCE"},
	}
}
