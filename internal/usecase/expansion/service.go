// Package expansion turns one job description into several query variants.
package expansion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	domexp "github.com/OmarAli141/resumes-comparison/internal/domain/expansion"
	"github.com/OmarAli141/resumes-comparison/internal/metrics"
)

// Service applies strategies in order. It never fails: a failing strategy
// contributes no variants and the original text is always variant 0.
type Service struct {
	strategies  []Strategy
	maxVariants int
	logger      *zap.Logger
}

// New creates an expander. maxVariants < 1 means domexp.DefaultMaxVariants.
func New(maxVariants int, logger *zap.Logger, strategies ...Strategy) *Service {
	if maxVariants < 1 {
		maxVariants = domexp.DefaultMaxVariants
	}
	return &Service{strategies: strategies, maxVariants: maxVariants, logger: logger}
}

// Expand returns the original text followed by the strategy variants.
func (s *Service) Expand(ctx context.Context, jd document.Document) domexp.Expansion {
	original := jd.Text()
	var extras []string

	for _, st := range s.strategies {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		vs, err := st.Variants(ctx, jd)
		if err != nil {
			metrics.ExpansionErrorsTotal.WithLabelValues(st.Name()).Inc()
			s.logger.Warn("Expansion strategy failed",
				zap.String("strategy", st.Name()),
				zap.String("jd_id", jd.ID()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			continue
		}
		s.logger.Debug("Expansion strategy applied",
			zap.String("strategy", st.Name()),
			zap.Int("variants", len(vs)),
			zap.Duration("duration", time.Since(start)),
		)
		extras = append(extras, vs...)
	}

	exp, err := domexp.New(original, extras, s.maxVariants)
	if err != nil {
		exp = domexp.Single(original)
	}
	metrics.ExpansionVariants.Observe(float64(exp.Len()))
	return exp
}
