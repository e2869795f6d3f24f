package domain

import "context"

// Paraphraser rewrites a query into up to n alternative phrasings.
type Paraphraser interface {
	Paraphrase(ctx context.Context, text string, n int) ([]string, error)
}
