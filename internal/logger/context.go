package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type ctxKey struct{}

type eventKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// Event collects fields for the single canonical log line of a request.
// Handlers add to it; the middleware that created it writes it out.
type Event struct {
	mu     sync.Mutex
	fields []zap.Field
}

// WithEvent attaches a fresh Event to the context.
func WithEvent(ctx context.Context) (context.Context, *Event) {
	ev := &Event{}
	return context.WithValue(ctx, eventKey{}, ev), ev
}

// Annotate adds fields to the request's Event. It is a no-op without one.
func Annotate(ctx context.Context, fields ...zap.Field) {
	ev, ok := ctx.Value(eventKey{}).(*Event)
	if !ok {
		return
	}
	ev.mu.Lock()
	ev.fields = append(ev.fields, fields...)
	ev.mu.Unlock()
}

// Fields returns a copy of the collected fields.
func (e *Event) Fields() []zap.Field {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]zap.Field, len(e.fields))
	copy(out, e.fields)
	return out
}
