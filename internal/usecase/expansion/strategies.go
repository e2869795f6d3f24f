package expansion

import (
	"context"
	"fmt"
	"strings"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

// Strategy names, also used as metric labels and config keys.
const (
	StrategySections      = "sections"
	StrategyRelatedTitles = "related_titles"
	StrategyParaphrase    = "paraphrase"
)

// Sections emits one variant per labeled section chunk.
// Free-text job descriptions (fewer than two sections) produce nothing.
type Sections struct{}

// Name implements Strategy.
func (Sections) Name() string { return StrategySections }

// Variants implements Strategy.
func (Sections) Variants(_ context.Context, jd document.Document) ([]string, error) {
	sections := jobdesc.ParseSections(jd.Text())
	if len(sections) < 2 {
		return nil, nil
	}
	return jobdesc.ChunkSections(sections), nil
}

// RelatedTitles emits the job title followed by similar titles from the title collection.
type RelatedTitles struct {
	finder    SimilarTitles
	threshold float64
	limit     int
}

// NewRelatedTitles creates the related-title strategy.
func NewRelatedTitles(finder SimilarTitles, threshold float64, limit int) *RelatedTitles {
	if threshold <= 0 {
		threshold = titles.DefaultSimilarThreshold
	}
	if limit <= 0 {
		limit = titles.DefaultRelatedTopK
	}
	return &RelatedTitles{finder: finder, threshold: threshold, limit: limit}
}

// Name implements Strategy.
func (*RelatedTitles) Name() string { return StrategyRelatedTitles }

// Variants implements Strategy.
func (r *RelatedTitles) Variants(ctx context.Context, jd document.Document) ([]string, error) {
	t := strings.TrimSpace(jd.Title())
	if t == "" {
		return nil, nil
	}

	related, err := r.finder.Similar(ctx, t, r.threshold, r.limit)
	if err != nil {
		return nil, fmt.Errorf("similar titles: %w", err)
	}
	if len(related) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, len(related)+1)
	parts = append(parts, t)
	for _, rt := range related {
		parts = append(parts, rt.Title)
	}
	return []string{strings.Join(parts, " ")}, nil
}

// maxParaphraseInput bounds the text sent to the paraphrase model.
const maxParaphraseInput = 2000

// Paraphrase asks a language model for alternative phrasings.
type Paraphrase struct {
	provider domain.Paraphraser
	n        int
}

// NewParaphrase creates the paraphrase strategy.
func NewParaphrase(provider domain.Paraphraser, n int) *Paraphrase {
	return &Paraphrase{provider: provider, n: n}
}

// Name implements Strategy.
func (*Paraphrase) Name() string { return StrategyParaphrase }

// Variants implements Strategy.
func (p *Paraphrase) Variants(ctx context.Context, jd document.Document) ([]string, error) {
	if p.n < 1 {
		return nil, nil
	}
	text := jd.Text()
	if len(text) > maxParaphraseInput {
		text = strings.ToValidUTF8(text[:maxParaphraseInput], "")
	}
	out, err := p.provider.Paraphrase(ctx, text, p.n)
	if err != nil {
		return nil, fmt.Errorf("paraphrase: %w", err)
	}
	return out, nil
}
