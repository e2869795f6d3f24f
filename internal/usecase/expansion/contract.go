package expansion

import (
	"context"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

// Strategy derives extra query variants from a job description.
// A strategy must not return the original text; duplicates are dropped later.
type Strategy interface {
	Name() string
	Variants(ctx context.Context, jd document.Document) ([]string, error)
}

// SimilarTitles finds titles close to a job title.
type SimilarTitles interface {
	Similar(ctx context.Context, title string, threshold float64, limit int) ([]titles.Related, error)
}
