// Package scoring converts index distances to similarity scores and applies
// the title boost. Both are pure functions so policies can be swapped in tests.
package scoring

import "fmt"

// FromCosineDistance maps a cosine distance to a similarity in [0,1]:
// score = clamp(1 - d, 0, 1). Cosine distance lies in [0,2]; opposite vectors
// clamp to 0.
func FromCosineDistance(distance float64) float64 {
	return Clamp(1 - distance)
}

// Clamp bounds s to [0,1].
func Clamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// BoostPolicy adjusts a base score for candidates whose title matches the job title.
// Implementations must return a value in [0,1] and leave unmatched scores unchanged.
type BoostPolicy interface {
	Apply(score float64, matched bool) float64
}

// NoBoost leaves scores unchanged.
type NoBoost struct{}

// Apply returns score as is.
func (NoBoost) Apply(score float64, _ bool) float64 { return score }

// Additive adds a fixed amount to matching candidates, capped at 1.0.
type Additive struct {
	Amount float64
}

// Apply returns min(1, score + Amount) for matches.
func (a Additive) Apply(score float64, matched bool) float64 {
	if !matched {
		return score
	}
	return Clamp(score + a.Amount)
}

// Multiplicative scales matching scores by Factor, capped at 1.0.
type Multiplicative struct {
	Factor float64
}

// Apply returns min(1, score * Factor) for matches.
func (m Multiplicative) Apply(score float64, matched bool) float64 {
	if !matched {
		return score
	}
	return Clamp(score * m.Factor)
}

// Boost modes accepted by NewPolicy.
const (
	ModeAdditive       = "additive"
	ModeMultiplicative = "multiplicative"
	ModeNone           = "none"
)

// NewPolicy builds a policy from configuration values.
func NewPolicy(mode string, magnitude float64) (BoostPolicy, error) {
	switch mode {
	case "", ModeAdditive:
		if magnitude < 0 || magnitude > 1 {
			return nil, fmt.Errorf("additive boost must be in [0,1], got %g", magnitude)
		}
		if magnitude == 0 {
			return NoBoost{}, nil
		}
		return Additive{Amount: magnitude}, nil
	case ModeMultiplicative:
		if magnitude < 1 {
			return nil, fmt.Errorf("multiplicative boost must be >= 1, got %g", magnitude)
		}
		return Multiplicative{Factor: magnitude}, nil
	case ModeNone:
		return NoBoost{}, nil
	default:
		return nil, fmt.Errorf("unknown boost mode %q", mode)
	}
}
