package result

import (
	"slices"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
)

// Ranked is the outcome of a match call: at most top_k_final candidates,
// score descending, id ascending on ties.
type Ranked struct {
	items        []candidate.Scored
	variants     []string
	softFailures []*domain.EmbeddingError
	poolSize     int
}

// New creates a ranked result. items must already be ordered and truncated.
func New(
	items []candidate.Scored, variants []string,
	softFailures []*domain.EmbeddingError, poolSize int,
) Ranked {
	return Ranked{
		items:        items,
		variants:     variants,
		softFailures: softFailures,
		poolSize:     poolSize,
	}
}

// Items returns a copy of the ranked candidates.
func (r Ranked) Items() []candidate.Scored { return slices.Clone(r.items) }

// Len returns the number of ranked candidates.
func (r Ranked) Len() int { return len(r.items) }

// Variants returns the query variants that were attempted.
func (r Ranked) Variants() []string { return slices.Clone(r.variants) }

// SoftFailures returns the variants that were omitted.
func (r Ranked) SoftFailures() []*domain.EmbeddingError { return slices.Clone(r.softFailures) }

// SoftFailureCount returns the number of omitted variants.
func (r Ranked) SoftFailureCount() int { return len(r.softFailures) }

// PoolSize is the number of unique candidates before truncation.
func (r Ranked) PoolSize() int { return r.poolSize }

// AcceptedCount returns how many returned candidates passed the threshold.
func (r Ranked) AcceptedCount() int {
	n := 0
	for _, it := range r.items {
		if it.Accepted {
			n++
		}
	}
	return n
}
