package health

import (
	"context"
	"maps"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the aggregated outcome of a Check.
type Status string

const (
	Healthy Status = "ok"
	// Degraded means an auxiliary component failed; matching may still run.
	Degraded Status = "degraded"
	// Unhealthy means the vector index is unreachable.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one component check.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Built-in component names.
const (
	ComponentVectorIndex = "vector_index"
	ComponentEmbedding   = "embedding"
)

// DefaultTimeout bounds each component check.
const DefaultTimeout = 2 * time.Second

// Report is the result of a Check.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs component checks concurrently, each under its own timeout.
type Service struct {
	checks  map[string]Probe
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithProbe registers an auxiliary check. Its failure degrades the report.
func WithProbe(name string, p Probe) Option {
	return func(s *Service) { s.checks[name] = p }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Service. embedding may be nil.
func New(db Pinger, embedding EmbeddingChecker, opts ...Option) *Service {
	s := &Service{
		checks:  map[string]Probe{ComponentVectorIndex: db.Ping},
		timeout: DefaultTimeout,
	}
	if embedding != nil {
		s.checks[ComponentEmbedding] = embedding.HealthCheck
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check probes every component and aggregates the results.
func (s *Service) Check(ctx context.Context) Report {
	names := slices.Sorted(maps.Keys(s.checks))
	results := make([]CheckResult, len(names))

	// probe errors land in results; the group never fails
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			results[i] = toResult(s.checks[name](cctx))
			return nil
		})
	}
	_ = g.Wait()

	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(names))}
	for i, name := range names {
		r.Checks[name] = results[i]
		if results[i] == CheckError && r.Status == Healthy {
			r.Status = Degraded
		}
	}
	if r.Checks[ComponentVectorIndex] == CheckError {
		r.Status = Unhealthy
	}
	return r
}

func toResult(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
