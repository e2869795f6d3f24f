package expansion

import (
	"fmt"
	"regexp"
	"strings"
)

// ParaphrasePrompt asks a chat model for n rewrites of a job description query, one per line.
func ParaphrasePrompt(text string, n int) string {
	return fmt.Sprintf(`Rewrite the following job description query in %d different ways.
Keep the job title, seniority and required skills. Use wording a resume would use.
Return one rewrite per line with no numbering and no commentary.

Query:
%s`, n, strings.TrimSpace(text))
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// ParseParaphrases splits a model reply into at most n clean lines.
// List markers and surrounding quotes are stripped; blank lines are dropped.
func ParseParaphrases(raw string, n int) []string {
	if n < 1 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = listMarker.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}
