package titles

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/metrics"
)

// Index serves lookups from the currently published snapshot.
// Publishing swaps the whole snapshot; readers never see a partial build.
type Index struct {
	current  atomic.Pointer[title.Snapshot]
	required bool
	logger   *zap.Logger
}

// NewIndex creates an empty live index. When required is true, lookups before the
// first Publish fail with BackendUnavailableError.
func NewIndex(required bool, logger *zap.Logger) *Index {
	return &Index{required: required, logger: logger}
}

// Publish makes snap the current snapshot.
func (i *Index) Publish(snap *title.Snapshot) {
	if snap == nil {
		return
	}
	prev := i.current.Swap(snap)
	metrics.TitleIndexEntries.Set(float64(snap.Len()))

	fields := []zap.Field{zap.String("version", snap.Version()), zap.Int("titles", snap.Len())}
	if prev != nil {
		fields = append(fields, zap.String("previous_version", prev.Version()))
	}
	i.logger.Info("Title index published", fields...)
}

// Current returns the published snapshot or nil.
func (i *Index) Current() *title.Snapshot {
	return i.current.Load()
}

// Lookup returns the members of t's canonical title. Unknown titles give an empty set.
// With no snapshot published it fails only when the index is required.
func (i *Index) Lookup(_ context.Context, t string) (title.Set, error) {
	snap := i.current.Load()
	if snap == nil {
		if i.required {
			return nil, domain.NewBackendUnavailable(domain.BackendTitleIndex, errors.New("no snapshot published"))
		}
		return title.Set{}, nil
	}
	return snap.Lookup(t), nil
}

// Ready reports whether a snapshot is available (for health checks).
func (i *Index) Ready(_ context.Context) error {
	if i.current.Load() == nil {
		return domain.NewBackendUnavailable(domain.BackendTitleIndex, errors.New("no snapshot published"))
	}
	return nil
}

// Load publishes the stored current snapshot. A missing snapshot is an error
// only when the index is required.
func (i *Index) Load(ctx context.Context, store SnapshotStore) error {
	snap, err := store.LoadCurrent(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && !i.required {
			i.logger.Warn("No title index snapshot stored, title boost disabled")
			return nil
		}
		return domain.NewBackendUnavailable(domain.BackendTitleIndex, fmt.Errorf("load snapshot: %w", err))
	}
	i.Publish(snap)
	return nil
}
