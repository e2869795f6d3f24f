package resmatch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
)

// Outcome labels for resmatch_client_operations_total.
const (
	outcomeOK          = "ok"
	outcomeInvalid     = "invalid"
	outcomeUnavailable = "unavailable"
	outcomeRetrieval   = "retrieval"
	outcomeError       = "error"
)

type clientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resmatch",
		Subsystem: "client",
		Name:      "operations_total",
		Help:      "Client operations by name and outcome.",
	}, []string{"operation", "outcome"})
	dur := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resmatch",
		Subsystem: "client",
		Name:      "operation_duration_seconds",
		Help:      "Client operation latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	var err error
	if ops, err = register(reg, ops); err != nil {
		return nil, err
	}
	if dur, err = register(reg, dur); err != nil {
		return nil, err
	}
	return &clientMetrics{operations: ops, duration: dur}, nil
}

// register returns c, or the collector already registered under the same
// descriptor so that several clients can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("resmatch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("resmatch: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// outcome buckets err by the domain sentinel it wraps.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrInvalidInput):
		return outcomeInvalid
	case errors.Is(err, domain.ErrBackendUnavailable):
		return outcomeUnavailable
	case errors.Is(err, domain.ErrRetrieval):
		return outcomeRetrieval
	default:
		return outcomeError
	}
}

// observer logs and counts client operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newClientMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)
	result := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, result).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("resmatch operation failed",
			"op", op, "outcome", result, "elapsed", elapsed, "error", err)
		return
	}
	o.logger.Debug("resmatch operation", "op", op, "elapsed", elapsed)
}
