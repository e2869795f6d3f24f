package match

import (
	"cmp"
	"slices"
	"strings"

	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/scoring"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
)

// rank scores, boosts, marks acceptance, orders and truncates the pool.
// members may be nil (no boost).
func rank(
	pool map[string]candidate.Candidate, members title.Set, boost scoring.BoostPolicy, p params.Params,
) []candidate.Scored {
	scored := make([]candidate.Scored, 0, len(pool))
	for id, c := range pool {
		base := scoring.FromCosineDistance(c.Distance)
		matched := members.Has(id)
		score := base
		if boost != nil {
			score = scoring.Clamp(boost.Apply(base, matched))
		}
		scored = append(scored, candidate.Scored{
			Candidate: c,
			Score:     score,
			Accepted:  score >= p.MinScoreAccept(),
			Boosted:   matched && score != base,
		})
	}

	slices.SortFunc(scored, func(a, b candidate.Scored) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), strings.Compare(a.ID, b.ID))
	})

	if len(scored) > p.TopKFinal() {
		scored = scored[:p.TopKFinal()]
	}
	return scored
}
