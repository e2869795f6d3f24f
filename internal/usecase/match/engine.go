// Package match retrieves and ranks resumes for a job description.
package match

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	domexp "github.com/OmarAli141/resumes-comparison/internal/domain/expansion"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/scoring"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/metrics"
)

// DefaultVariantTimeout bounds embedding plus retrieval of one variant.
const DefaultVariantTimeout = 5 * time.Second

// DefaultMaxParallel caps the variants embedded and queried at once.
const DefaultMaxParallel = 8

// Engine runs expansion, per-variant retrieval, merge, scoring and ranking.
// It holds no mutable state; concurrent Match calls are safe.
type Engine struct {
	expander       Expander
	embedder       domain.Embedder
	index          VectorIndex
	titles         TitleIndex
	boost          scoring.BoostPolicy
	variantTimeout time.Duration
	maxParallel    int
	overfetch      int
	logger         *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithExpander sets the query expander. Without one only the original text is used.
func WithExpander(e Expander) Option { return func(en *Engine) { en.expander = e } }

// WithTitleIndex enables the title boost.
func WithTitleIndex(t TitleIndex) Option { return func(en *Engine) { en.titles = t } }

// WithBoost sets the boost policy (default: additive 0.05).
func WithBoost(p scoring.BoostPolicy) Option { return func(en *Engine) { en.boost = p } }

// WithVariantTimeout sets the per-variant deadline.
func WithVariantTimeout(d time.Duration) Option {
	return func(en *Engine) {
		if d > 0 {
			en.variantTimeout = d
		}
	}
}

// WithMaxParallel bounds concurrent variants. n < 1 keeps DefaultMaxParallel.
func WithMaxParallel(n int) Option {
	return func(en *Engine) {
		if n > 0 {
			en.maxParallel = n
		}
	}
}

// WithOverfetch multiplies the k of every k-NN query. Resumes are indexed as
// one entry per field, so k entries may cover fewer than k distinct resumes.
// factor < 1 keeps the default of 1.
func WithOverfetch(factor int) Option {
	return func(en *Engine) {
		if factor > 0 {
			en.overfetch = factor
		}
	}
}

// DefaultTitleBoost is the additive boost for title matches.
const DefaultTitleBoost = 0.05

// New creates an Engine.
func New(embedder domain.Embedder, index VectorIndex, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		embedder:       embedder,
		index:          index,
		boost:          scoring.Additive{Amount: DefaultTitleBoost},
		variantTimeout: DefaultVariantTimeout,
		maxParallel:    DefaultMaxParallel,
		overfetch:      1,
		logger:         logger,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Match returns at most p.TopKFinal() resumes ordered by score descending, then id ascending.
//
// Errors: ConfigurationError for invalid params or an empty job description (no
// external call is made), BackendUnavailableError when the vector index or a
// required title index fails, RetrievalError when every variant failed.
// Variants that fail to embed or time out are omitted and reported in
// Ranked.SoftFailures.
func (e *Engine) Match(ctx context.Context, jd document.Document, p params.Params) (result.Ranked, error) {
	start := time.Now()
	ranked, err := e.match(ctx, jd, p)
	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	metrics.MatchRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err == nil {
		metrics.MatchCandidatesReturned.Observe(float64(ranked.Len()))
	}
	return ranked, err
}

func (e *Engine) match(ctx context.Context, jd document.Document, p params.Params) (result.Ranked, error) {
	if err := p.Validate(); err != nil {
		return result.Ranked{}, err
	}
	if strings.TrimSpace(jd.Text()) == "" {
		return result.Ranked{}, domain.NewConfigurationError("job_description", "text must not be empty")
	}

	log := e.logger.With(zap.String("jd_id", jd.ID()))
	ctx, usage := domain.NewContextWithUsage(ctx)

	members, err := e.titleMembers(ctx, jd.Title())
	if err != nil {
		return result.Ranked{}, err
	}

	exp := domexp.Single(jd.Text())
	if e.expander != nil {
		exp = e.expander.Expand(ctx, jd)
	}
	if exp.Len() == 0 {
		exp = domexp.Single(jd.Text())
	}
	variants := exp.Variants()

	outcomes, err := e.fanOut(ctx, variants, p.TopKInitial()*e.overfetch)
	if err != nil {
		return result.Ranked{}, err
	}

	var failures []*domain.EmbeddingError
	for _, o := range outcomes {
		if o.soft == nil {
			continue
		}
		failures = append(failures, o.soft)
		metrics.MatchSoftFailuresTotal.WithLabelValues(softReason(o.soft)).Inc()
		log.Warn("Query variant omitted",
			zap.Int("variant", o.soft.Variant),
			zap.Error(o.soft.Err),
		)
	}
	if len(failures) == len(variants) {
		return result.Ranked{}, &domain.RetrievalError{Failures: failures}
	}

	pool := merge(outcomes)
	items := rank(pool, members, e.boost, p)

	log.Debug("Match completed",
		zap.Int("variants", len(variants)),
		zap.Int("soft_failures", len(failures)),
		zap.Int("pool", len(pool)),
		zap.Int("returned", len(items)),
		zap.Int("embedding_calls", usage.Calls()),
		zap.Int("embedding_tokens", usage.TotalTokens()),
	)
	return result.New(items, variants, failures, len(pool)), nil
}

// titleMembers returns the resumes filed under the job title, or nil when no
// boost applies (no title, no title index).
func (e *Engine) titleMembers(ctx context.Context, t string) (title.Set, error) {
	if e.titles == nil || strings.TrimSpace(t) == "" {
		return nil, nil
	}
	members, err := e.titles.Lookup(ctx, t)
	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) {
			return nil, err
		}
		return nil, domain.NewBackendUnavailable(domain.BackendTitleIndex, err)
	}
	return members, nil
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "backend_unavailable"
	case errors.Is(err, domain.ErrRetrieval):
		return "retrieval"
	default:
		return "error"
	}
}

func softReason(err *domain.EmbeddingError) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrVectorDimMismatch):
		return "dimension"
	default:
		return "embedding"
	}
}
