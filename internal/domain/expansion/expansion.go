// Package expansion holds the set of query variants derived from one job description.
package expansion

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultMaxVariants caps the number of variants including the original.
const DefaultMaxVariants = 8

// Expansion is an immutable list of query variants. Variants()[0] is always the original.
type Expansion struct {
	original string
	variants []string
}

// New builds an Expansion: the original first, then extras in order.
// Blank and duplicate extras are dropped; the result is capped at maxVariants
// (values < 1 mean DefaultMaxVariants).
func New(original string, extras []string, maxVariants int) (Expansion, error) {
	if strings.TrimSpace(original) == "" {
		return Expansion{}, fmt.Errorf("original text is required")
	}
	if maxVariants < 1 {
		maxVariants = DefaultMaxVariants
	}

	seen := map[string]struct{}{normalize(original): {}}
	variants := make([]string, 1, min(len(extras)+1, maxVariants))
	variants[0] = original
	for _, v := range extras {
		if len(variants) >= maxVariants {
			break
		}
		key := normalize(v)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		variants = append(variants, strings.TrimSpace(v))
	}
	return Expansion{original: original, variants: variants}, nil
}

// Single returns an Expansion holding only the original text.
func Single(original string) Expansion {
	return Expansion{original: original, variants: []string{original}}
}

// Original returns the unmodified job description text.
func (e Expansion) Original() string { return e.original }

// Variants returns a copy of all variants, original first.
func (e Expansion) Variants() []string { return slices.Clone(e.variants) }

// Len returns the number of variants.
func (e Expansion) Len() int { return len(e.variants) }

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
