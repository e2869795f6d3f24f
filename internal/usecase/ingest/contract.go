package ingest

import (
	"context"

	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// VectorIndex is the write surface of the vector index.
type VectorIndex interface {
	EnsureIndex(ctx context.Context, c vectorindex.Collection) error
	Reset(ctx context.Context, c vectorindex.Collection) error
	Upsert(ctx context.Context, c vectorindex.Collection, entries []vectorindex.Entry) error
}

// SnapshotStore persists built title index snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, snap *title.Snapshot) error
}

// Publisher makes a snapshot visible to in-process lookups.
type Publisher interface {
	Publish(snap *title.Snapshot)
}
