// Package title normalizes job titles and holds the immutable title index snapshot.
package title

import (
	"strings"
	"unicode"
)

var synonyms = map[string]string{
	"sr":  "senior",
	"jr":  "junior",
	"mgr": "manager",
	"dev": "developer",
	"eng": "engineer",
}

// Canonicalize folds a title to its lookup key: lowercase, punctuation
// replaced by spaces, abbreviations expanded, whitespace collapsed.
// Canonicalize is idempotent.
func Canonicalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	words := strings.Fields(mapped)
	for i, w := range words {
		if full, ok := synonyms[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// IsSentenceLike reports whether s reads like a phrase lifted from prose
// rather than a job title.
func IsSentenceLike(s string) bool {
	if len(strings.Fields(s)) > MaxTitleWords {
		return true
	}
	lower := strings.ToLower(s)
	for _, marker := range []string{"years", "experience", "domain", "skilled at", "focused on"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
