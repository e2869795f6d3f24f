package match

import (
	"context"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	domexp "github.com/OmarAli141/resumes-comparison/internal/domain/expansion"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
	"github.com/OmarAli141/resumes-comparison/internal/domain/search/filter"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// Expander derives query variants from a job description.
type Expander interface {
	Expand(ctx context.Context, jd document.Document) domexp.Expansion
}

// VectorIndex answers k-NN queries.
type VectorIndex interface {
	Query(
		ctx context.Context, c vectorindex.Collection, vector []float32, k int, filters filter.Expression,
	) ([]candidate.Candidate, error)
}

// TitleIndex resolves a job title to the resumes filed under it.
type TitleIndex interface {
	Lookup(ctx context.Context, t string) (title.Set, error)
}
