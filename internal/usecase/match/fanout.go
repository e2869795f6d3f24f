package match

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
	"github.com/OmarAli141/resumes-comparison/internal/domain/search/filter"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// outcome is the result of one variant. Exactly one of hits/soft/fatal is meaningful.
type outcome struct {
	hits  []candidate.Candidate
	soft  *domain.EmbeddingError
	fatal error
}

// fanOut embeds and queries every variant concurrently, at most maxParallel at
// a time. Each goroutine writes only its own slot and never returns an error,
// so one failing variant does not stop the others. A vector index failure in
// any variant fails the call; the lowest-index failure is reported.
func (e *Engine) fanOut(ctx context.Context, variants []string, k int) ([]outcome, error) {
	outcomes := make([]outcome, len(variants))

	var g errgroup.Group
	g.SetLimit(e.maxParallel)
	for i, text := range variants {
		g.Go(func() error {
			outcomes[i] = e.runVariant(ctx, i, text, k)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("match abandoned: %w", err)
	}
	for _, o := range outcomes {
		if o.fatal != nil {
			return nil, o.fatal
		}
	}
	return outcomes, nil
}

func (e *Engine) runVariant(ctx context.Context, i int, text string, k int) outcome {
	vctx, cancel := context.WithTimeout(ctx, e.variantTimeout)
	defer cancel()

	emb, err := e.embedder.Embed(vctx, text)
	if err == nil && len(emb.Embedding) == 0 {
		err = fmt.Errorf("empty vector: %w", domain.ErrEmbeddingProviderError)
	}
	if err != nil {
		return outcome{soft: &domain.EmbeddingError{Variant: i, Text: text, Err: err}}
	}

	hits, err := e.index.Query(vctx, vectorindex.Resumes, emb.Embedding, k, filter.Expression{})
	if err != nil {
		// the index rejected the vector itself: a bad embedding, not an outage
		if errors.Is(err, domain.ErrVectorDimMismatch) {
			return outcome{soft: &domain.EmbeddingError{Variant: i, Text: text, Err: err}}
		}
		// the variant ran out of time while the caller is still waiting: omit it
		if errors.Is(vctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return outcome{soft: &domain.EmbeddingError{Variant: i, Text: text, Err: context.DeadlineExceeded}}
		}
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			err = domain.NewBackendUnavailable(domain.BackendVectorIndex, err)
		}
		return outcome{fatal: err}
	}

	for j := range hits {
		hits[j].Variant = i
	}
	return outcome{hits: hits}
}
