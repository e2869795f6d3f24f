package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/domain/resume"
)

// Placeholders written by the resume cleaning step for missing sections.
var placeholders = map[string]struct{}{
	"no summary available": {},
	"no experience listed": {},
	"not specified":        {},
}

type resumeRecord struct {
	UpperID        json.RawMessage `json:"ID"`
	LowerID        json.RawMessage `json:"id"`
	Category       string          `json:"category"`
	Summary        string          `json:"summary"`
	Education      string          `json:"education"`
	WorkExperience string          `json:"work_experience"`
	Skills         string          `json:"skills"`
}

type jdRecord struct {
	ID            json.RawMessage `json:"id"`
	PositionTitle string          `json:"position_title"`
	ModelResponse map[string]any  `json:"model_response"`
}

// LoadResumes decodes a JSON array of cleaned resumes. Records may carry their
// id as "ID" or "id", as a string or a number; records without one get
// "resume_{index}".
func LoadResumes(r io.Reader) ([]resume.Resume, error) {
	var records []resumeRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode resumes: %w", err)
	}

	out := make([]resume.Resume, 0, len(records))
	for i, rec := range records {
		id := rawID(rec.UpperID)
		if id == "" {
			id = rawID(rec.LowerID)
		}
		if id == "" {
			id = "resume_" + strconv.Itoa(i)
		}
		out = append(out, resume.Resume{
			ID:             id,
			Category:       strings.TrimSpace(rec.Category),
			Summary:        section(rec.Summary),
			Education:      section(rec.Education),
			WorkExperience: section(rec.WorkExperience),
			Skills:         section(rec.Skills),
		})
	}
	return out, nil
}

// LoadJobDescriptions decodes a JSON array of structured job descriptions
// ({"position_title", "model_response"}). Records without an id get "jd_{index}".
func LoadJobDescriptions(r io.Reader) ([]jobdesc.JobDescription, error) {
	var records []jdRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode job descriptions: %w", err)
	}

	out := make([]jobdesc.JobDescription, 0, len(records))
	for i, rec := range records {
		id := rawID(rec.ID)
		if id == "" {
			id = "jd_" + strconv.Itoa(i)
		}
		out = append(out, jobdesc.FromStructured(id, rec.PositionTitle, rec.ModelResponse))
	}
	return out, nil
}

// LoadResumesFile opens path and decodes it with LoadResumes.
func LoadResumesFile(path string) ([]resume.Resume, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open resumes: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadResumes(f)
}

// LoadJobDescriptionsFile opens path and decodes it with LoadJobDescriptions.
func LoadJobDescriptionsFile(path string) ([]jobdesc.JobDescription, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open job descriptions: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadJobDescriptions(f)
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func section(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := placeholders[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}
