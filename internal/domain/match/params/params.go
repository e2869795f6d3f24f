// Package params holds the validated knobs of a single match call.
package params

import (
	"math"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
)

// Defaults used when configuration omits a value.
const (
	DefaultTopKInitial    = 80
	DefaultTopKFinal      = 10
	DefaultMinScoreAccept = 0.70
)

// Params are the per-call matching parameters.
type Params struct {
	topKInitial    int
	topKFinal      int
	minScoreAccept float64
}

// New validates and creates Params.
// Requires top_k_initial >= top_k_final >= 1 and min_score_accept in [0,1].
func New(topKInitial, topKFinal int, minScoreAccept float64) (Params, error) {
	if topKFinal < 1 {
		return Params{}, domain.NewConfigurationError("top_k_final", "must be >= 1")
	}
	if topKInitial < topKFinal {
		return Params{}, domain.NewConfigurationError("top_k_initial", "must be >= top_k_final")
	}
	if math.IsNaN(minScoreAccept) || minScoreAccept < 0 || minScoreAccept > 1 {
		return Params{}, domain.NewConfigurationError("min_score_accept", "must be between 0 and 1")
	}
	return Params{
		topKInitial:    topKInitial,
		topKFinal:      topKFinal,
		minScoreAccept: minScoreAccept,
	}, nil
}

// Default returns the stock parameters (80 / 10 / 0.70).
func Default() Params {
	return Params{
		topKInitial:    DefaultTopKInitial,
		topKFinal:      DefaultTopKFinal,
		minScoreAccept: DefaultMinScoreAccept,
	}
}

// Validate re-checks a Params value, catching zero values built without New.
func (p Params) Validate() error {
	_, err := New(p.topKInitial, p.topKFinal, p.minScoreAccept)
	return err
}

// TopKInitial is the k used for every per-variant k-NN query.
func (p Params) TopKInitial() int { return p.topKInitial }

// TopKFinal is the maximum length of the ranked result.
func (p Params) TopKFinal() int { return p.topKFinal }

// MinScoreAccept is the acceptance threshold.
func (p Params) MinScoreAccept() float64 { return p.minScoreAccept }

// WithOverrides returns a copy with the non-nil values replaced, validated.
func (p Params) WithOverrides(topKInitial, topKFinal *int, minScoreAccept *float64) (Params, error) {
	ki, kf, ms := p.topKInitial, p.topKFinal, p.minScoreAccept
	if topKInitial != nil {
		ki = *topKInitial
	}
	if topKFinal != nil {
		kf = *topKFinal
	}
	if minScoreAccept != nil {
		ms = *minScoreAccept
	}
	return New(ki, kf, ms)
}
