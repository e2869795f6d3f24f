package match

import "github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"

// merge reduces all variant hits to one candidate per id, keeping the smallest
// distance. On equal distance the hit from the earlier variant wins, and within
// a variant the earlier hit wins, so the result does not depend on goroutine timing.
func merge(outcomes []outcome) map[string]candidate.Candidate {
	best := make(map[string]candidate.Candidate)
	for _, o := range outcomes {
		for _, h := range o.hits {
			cur, ok := best[h.ID]
			if !ok || h.Distance < cur.Distance {
				best[h.ID] = h
			}
		}
	}
	return best
}
