package resmatch

// MatchOption overrides a default match parameter for one call.
type MatchOption func(*matchOverrides)

type matchOverrides struct {
	topKInitial    *int
	topKFinal      *int
	minScoreAccept *float64
}

// TopKInitial sets how many candidates each query variant fetches.
func TopKInitial(n int) MatchOption {
	return func(o *matchOverrides) { o.topKInitial = &n }
}

// TopKFinal sets how many resumes are returned.
func TopKFinal(n int) MatchOption {
	return func(o *matchOverrides) { o.topKFinal = &n }
}

// MinScore sets the acceptance threshold.
func MinScore(s float64) MatchOption {
	return func(o *matchOverrides) { o.minScoreAccept = &s }
}
