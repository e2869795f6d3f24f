package health

import "context"

// Pinger is the vector index connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker is implemented by embedding providers that can be probed.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// Probe checks one auxiliary component, e.g. the title index.
type Probe func(ctx context.Context) error
