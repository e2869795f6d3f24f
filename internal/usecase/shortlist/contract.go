package shortlist

import (
	"context"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	domshort "github.com/OmarAli141/resumes-comparison/internal/domain/shortlist"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// Matcher ranks resumes for a job description.
type Matcher interface {
	Match(ctx context.Context, jd document.Document, p params.Params) (result.Ranked, error)
}

// EntryReader loads stored job descriptions.
type EntryReader interface {
	Get(ctx context.Context, c vectorindex.Collection, key string) (vectorindex.Entry, error)
}

// RunStore persists match runs.
type RunStore interface {
	Save(ctx context.Context, run domshort.Run) error
	ListByJobDescription(ctx context.Context, jdID string, limit int) ([]domshort.Run, error)
}
