package title

import (
	"slices"
	"strings"
)

// Seniority levels stored as a tag on every indexed title.
const (
	SeniorityIntern = "intern"
	SeniorityJunior = "junior"
	SeniorityMid    = "mid"
	SenioritySenior = "senior"
)

// Levels lists all seniority levels from most to least senior.
var Levels = []string{SenioritySenior, SeniorityMid, SeniorityJunior, SeniorityIntern}

type levelKeywords struct {
	level    string
	keywords []string
}

// detection order matters: the first level with a hit wins.
var detectKeywords = []levelKeywords{
	{SenioritySenior, []string{"senior", "sr", "lead", "principal", "head", "chief", "director", "vp", "vice president"}},
	{SeniorityMid, []string{"mid", "mid-level", "intermediate", "experienced", "professional"}},
	{SeniorityJunior, []string{"junior", "jr", "entry", "associate", "assistant", "trainee", "intern", "internship"}},
	{SeniorityIntern, []string{"intern", "internship", "trainee", "student"}},
}

var queryKeywords = []levelKeywords{
	{SenioritySenior, []string{"senior", "sr", "lead", "principal", "head", "chief"}},
	{SeniorityJunior, []string{"junior", "jr", "entry", "associate", "assistant"}},
	{SeniorityIntern, []string{"intern", "internship", "trainee"}},
}

// DetectSeniority classifies a title; titles with no level keyword are "mid".
func DetectSeniority(t string) string {
	words := tokens(t)
	for _, lk := range detectKeywords {
		for _, kw := range lk.keywords {
			if containsPhrase(words, tokens(kw)) {
				return lk.level
			}
		}
	}
	return SeniorityMid
}

// ParseQuery splits free text like "financial analyst senior" into the
// title query and an optional seniority level. Level keywords are removed
// from the returned query.
func ParseQuery(input string) (query, seniority string) {
	words := tokens(input)
	for _, lk := range queryKeywords {
		hit := false
		for _, w := range words {
			if slices.Contains(lk.keywords, w) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		kept := words[:0:0]
		for _, w := range words {
			if !slices.Contains(lk.keywords, w) {
				kept = append(kept, w)
			}
		}
		return strings.Join(kept, " "), lk.level
	}
	return strings.Join(words, " "), ""
}

// IsLevel reports whether s names a known seniority level.
func IsLevel(s string) bool { return slices.Contains(Levels, s) }

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '(' || r == ')' || r == '.' || r == '\t'
	})
}

func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		if slices.Equal(words[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}
