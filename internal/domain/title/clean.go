package title

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits applied by ExtractCleanTitle.
const (
	MaxTitleWords = 8
	MaxTitleLen   = 60
)

var (
	leadingFiller  = regexp.MustCompile(`(?i)^(years|year|domain|experience|with|having|skilled|focused|working|hard-working|dedicated)\s+`)
	trailingClause = regexp.MustCompile(`(?i)\s+(years|year|experience|skilled|at|in|with|focused|on|working)\b.*$`)
	danglingWord   = regexp.MustCompile(`\s+(At|On|In|With|Skilled|Focused|Working|Hard-Working|Dedicated)$`)

	// workTitlePatterns match a title at the start of a work experience line,
	// e.g. "Staff Accountant at Acme" or "Project Senior Manager".
	workTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:at|@|in|for|,)\s+`),
		regexp.MustCompile(`^([A-Z][a-z]+(?:\s+(?:Senior|Junior|Lead|Principal|Associate|Assistant|Manager|Director|Analyst|Engineer|Developer|Specialist|Consultant|Coordinator))+)`),
	}
)

var jobKeywords = []string{
	"ACCOUNTANT", "ANALYST", "ENGINEER", "MANAGER", "DEVELOPER", "DIRECTOR",
	"SPECIALIST", "CONSULTANT", "DESIGNER", "ARCHITECT", "ADMINISTRATOR",
	"COORDINATOR", "EXECUTIVE", "OFFICER", "REPRESENTATIVE", "ASSISTANT",
	"LEAD", "SENIOR", "JUNIOR", "ASSOCIATE", "SUPERVISOR", "TECHNICIAN",
	"FINANCIAL", "BUSINESS", "DATA", "SOFTWARE", "SYSTEMS", "PROJECT",
}

// ExtractCleanTitle turns free text into a short professional title or "" when
// the text does not look like one.
func ExtractCleanTitle(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	text = leadingFiller.ReplaceAllString(text, "")
	text = trailingClause.ReplaceAllString(text, "")
	text = danglingWord.ReplaceAllString(text, "")

	words := strings.Fields(text)
	if len(words) == 0 || len(words) > MaxTitleWords {
		return ""
	}
	if !hasJobKeyword(text) {
		return ""
	}

	for i, w := range words {
		words[i] = titleWord(w)
	}
	out := strings.Join(words, " ")
	if utf8.RuneCountInString(out) > MaxTitleLen {
		return ""
	}
	return out
}

// DeriveFromResume picks a title from a resume's category, then the first
// title-looking work experience line, then the start of the summary.
// Returns "" when nothing qualifies.
func DeriveFromResume(category, workExperience, summary string) string {
	var candidate string

	if c := strings.TrimSpace(category); c != "" {
		switch strings.ToUpper(c) {
		case "UNKNOWN", "N/A":
		default:
			candidate = TitleCase(c)
		}
	}

	if candidate == "" && workExperience != "" {
		candidate = fromWorkExperience(workExperience)
	}

	if candidate == "" && summary != "" {
		words := strings.Fields(summary)
		if len(words) > 15 {
			words = words[:15]
		}
		candidate = ExtractCleanTitle(strings.Join(words, " "))
	}

	if candidate == "" {
		return ""
	}
	t := ExtractCleanTitle(candidate)
	if utf8.RuneCountInString(t) < 3 {
		return ""
	}
	return t
}

func fromWorkExperience(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 100 {
			continue
		}
		for _, p := range workTitlePatterns {
			m := p.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			cand := strings.TrimSpace(m[1])
			if len(strings.Fields(cand)) > 5 {
				continue
			}
			if t := ExtractCleanTitle(cand); t != "" {
				return t
			}
		}
	}
	return ""
}

// TitleCase capitalizes the first letter of every word and lowercases the rest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func hasJobKeyword(s string) bool {
	upper := strings.ToUpper(s)
	for _, kw := range jobKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// titleWord keeps acronyms ("CPA", "HR") and capitalizes everything else.
func titleWord(w string) string {
	if utf8.RuneCountInString(w) > 1 && isUpper(w) {
		return w
	}
	return capitalize(w)
}

func isUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
