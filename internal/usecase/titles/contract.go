package titles

import (
	"context"

	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
	"github.com/OmarAli141/resumes-comparison/internal/domain/search/filter"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// SnapshotStore persists title index snapshots.
type SnapshotStore interface {
	LoadCurrent(ctx context.Context) (*title.Snapshot, error)
}

// VectorIndex is the k-NN query surface over the job_titles collection.
type VectorIndex interface {
	Query(
		ctx context.Context, c vectorindex.Collection, vector []float32, k int, filters filter.Expression,
	) ([]candidate.Candidate, error)
}
