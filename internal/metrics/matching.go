package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Match and expansion Prometheus metrics.
var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Total number of match calls",
		},
		[]string{"status"}, // "ok" / "configuration" / "backend_unavailable" / "retrieval" / "error"
	)

	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Match call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	MatchSoftFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_soft_failures_total",
			Help:      "Query variants omitted because embedding failed or timed out",
		},
		[]string{"reason"}, // "timeout" / "embedding"
	)

	MatchCandidatesReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_candidates_returned",
			Help:      "Number of candidates returned per match call",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	ExpansionVariants = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "expansion_variants",
			Help:      "Number of query variants produced per job description",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
		},
	)

	ExpansionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expansion_errors_total",
			Help:      "Expansion strategy failures that degraded to no extra variants",
		},
		[]string{"strategy"},
	)

	TitleIndexEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "title_index_entries",
			Help:      "Canonical titles in the published title index snapshot",
		},
	)
)

var matchOnce sync.Once

// RegisterMatchMetrics registers match, expansion and title index collectors
// with the default registry. Safe to call more than once.
func RegisterMatchMetrics() {
	matchOnce.Do(func() {
		prometheus.MustRegister(
			MatchRequestsTotal,
			MatchDuration,
			MatchSoftFailuresTotal,
			MatchCandidatesReturned,
			ExpansionVariants,
			ExpansionErrorsTotal,
			TitleIndexEntries,
		)
	})
}
