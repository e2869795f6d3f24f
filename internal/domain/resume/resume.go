// Package resume models a cleaned resume record and its embeddable fields.
package resume

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
)

// Embeddable field types, in indexing order.
const (
	FieldSummary        = "summary"
	FieldEducation      = "education"
	FieldWorkExperience = "work_experience"
	FieldSkills         = "skills"
)

// FieldTypes lists every field that is embedded separately.
var FieldTypes = []string{FieldSummary, FieldEducation, FieldWorkExperience, FieldSkills}

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Resume is one cleaned resume.
type Resume struct {
	ID             string
	Category       string
	Summary        string
	Education      string
	WorkExperience string
	Skills         string
}

// Field is one non-empty section of a resume.
type Field struct {
	Type string
	Text string
}

// Validate checks the id; a resume with no text fields is also rejected.
func (r Resume) Validate() error {
	if r.ID == "" || len(r.ID) > 256 || !idPattern.MatchString(r.ID) {
		return fmt.Errorf("resume id %q: %w", r.ID, domain.ErrInvalidInput)
	}
	if len(r.Fields()) == 0 {
		return fmt.Errorf("resume %s has no text fields: %w", r.ID, domain.ErrInvalidInput)
	}
	return nil
}

// Fields returns the non-blank fields in FieldTypes order.
func (r Resume) Fields() []Field {
	values := [...]string{r.Summary, r.Education, r.WorkExperience, r.Skills}
	out := make([]Field, 0, len(values))
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, Field{Type: FieldTypes[i], Text: v})
	}
	return out
}

// Title derives the clean job title used for the title index.
func (r Resume) Title() string {
	return title.DeriveFromResume(r.Category, r.WorkExperience, r.Summary)
}

// CategoryOrUnknown returns the category, or "unknown" when blank.
func (r Resume) CategoryOrUnknown() string {
	if c := strings.TrimSpace(r.Category); c != "" {
		return c
	}
	return "unknown"
}
