package titles

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/scoring"
	"github.com/OmarAli141/resumes-comparison/internal/domain/search/filter"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// Defaults for related-title search.
const (
	DefaultRelatedTopK      = 10
	DefaultSimilarThreshold = 0.65
	MaxRelatedTopK          = 100
)

// Related is one title close to the query.
type Related struct {
	Title     string
	Seniority string
	Category  string
	Score     float64
}

// Finder searches the job_titles collection.
type Finder struct {
	embedder domain.Embedder
	index    VectorIndex
	logger   *zap.Logger
}

// NewFinder creates a related-title finder.
func NewFinder(embedder domain.Embedder, index VectorIndex, logger *zap.Logger) *Finder {
	return &Finder{embedder: embedder, index: index, logger: logger}
}

// Related parses seniority keywords out of query and returns up to topK titles.
// An explicit seniority overrides the parsed one.
func (f *Finder) Related(ctx context.Context, query, seniority string, topK int) ([]Related, error) {
	if topK <= 0 {
		topK = DefaultRelatedTopK
	}
	if topK > MaxRelatedTopK {
		return nil, fmt.Errorf("top_k must be <= %d: %w", MaxRelatedTopK, domain.ErrInvalidInput)
	}

	q, parsed := title.ParseQuery(query)
	if seniority == "" {
		seniority = parsed
	}
	seniority = strings.ToLower(strings.TrimSpace(seniority))
	if seniority != "" && !title.IsLevel(seniority) {
		return nil, fmt.Errorf("unknown seniority %q: %w", seniority, domain.ErrInvalidInput)
	}
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}

	return f.search(ctx, q, seniority, topK, 0)
}

// Similar returns up to limit titles with similarity >= threshold, skipping the
// query title itself. Used for query expansion.
func (f *Finder) Similar(ctx context.Context, t string, threshold float64, limit int) ([]Related, error) {
	if limit <= 0 {
		return nil, nil
	}
	found, err := f.search(ctx, t, "", limit+1, threshold)
	if err != nil {
		return nil, err
	}

	self := title.Canonicalize(t)
	out := make([]Related, 0, limit)
	for _, r := range found {
		if title.Canonicalize(r.Title) == self {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *Finder) search(ctx context.Context, text, seniority string, limit int, threshold float64) ([]Related, error) {
	emb, err := f.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed title query: %w", err)
	}

	var filters filter.Expression
	if seniority != "" {
		if filters, err = filter.Tag("seniority", seniority); err != nil {
			return nil, fmt.Errorf("seniority filter: %w", err)
		}
	}

	// over-fetch: sentence-like and duplicate titles are dropped below
	hits, err := f.index.Query(ctx, vectorindex.JobTitles, emb.Embedding, 2*limit, filters)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(hits))
	out := make([]Related, 0, limit)
	for _, h := range hits {
		score := scoring.FromCosineDistance(h.Distance)
		if score < threshold {
			continue
		}
		name := strings.TrimSpace(h.Content)
		if name == "" || title.IsSentenceLike(name) {
			continue
		}
		key := title.Canonicalize(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, Related{
			Title:     name,
			Seniority: h.Metadata["seniority"],
			Category:  h.Metadata["category"],
			Score:     score,
		})
		if len(out) == limit {
			break
		}
	}

	f.logger.Debug("Related titles",
		zap.String("query", text),
		zap.String("seniority", seniority),
		zap.Int("hits", len(hits)),
		zap.Int("returned", len(out)),
	)
	return out, nil
}
