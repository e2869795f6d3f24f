package resmatch

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	dombatch "github.com/OmarAli141/resumes-comparison/internal/domain/batch"
	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	"github.com/OmarAli141/resumes-comparison/internal/domain/resume"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
)

func jdToDocument(jd JobDescription) (document.Document, error) {
	id := jd.ID
	if id == "" {
		id = uuid.NewString()
	}

	if jd.PositionTitle != "" || len(jd.Sections) > 0 {
		doc, err := jobdesc.FromStructured(id, jd.PositionTitle, jd.Sections).Document()
		if err != nil {
			return document.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return doc, nil
	}

	meta := map[string]string{document.MetaSource: "client"}
	if t := strings.TrimSpace(jd.Title); t != "" {
		meta[document.MetaTitle] = t
		meta[document.MetaSeniority] = title.DetectSeniority(t)
	}
	doc, err := document.New(id, jd.Text, meta)
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return doc, nil
}

func positionTitle(jd JobDescription) string {
	if jd.PositionTitle != "" {
		return jd.PositionTitle
	}
	return jd.Title
}

// sectionsOrText stores free text under a single description section.
func sectionsOrText(jd JobDescription) map[string]any {
	if len(jd.Sections) > 0 || jd.Text == "" {
		return jd.Sections
	}
	return map[string]any{"job_description": jd.Text}
}

func rankedFromDomain(r result.Ranked) MatchResult {
	items := r.Items()
	out := MatchResult{
		Items:         make([]Match, len(items)),
		Variants:      r.Variants(),
		PoolSize:      r.PoolSize(),
		AcceptedCount: r.AcceptedCount(),
	}
	for i, it := range items {
		out.Items[i] = Match{
			ResumeID: it.ID,
			Title:    it.Title(),
			Score:    it.Score,
			Distance: it.Distance,
			Accepted: it.Accepted,
			Boosted:  it.Boosted,
		}
	}
	for _, f := range r.SoftFailures() {
		reason := ""
		if f.Err != nil {
			reason = f.Err.Error()
		}
		out.SoftFailures = append(out.SoftFailures, SoftFailure{Variant: f.Variant, Text: f.Text, Reason: reason})
	}
	return out
}

func resumesToDomain(in []Resume) []resume.Resume {
	out := make([]resume.Resume, len(in))
	for i, r := range in {
		out[i] = resume.Resume(r)
	}
	return out
}

func ingestFromDomain(results []dombatch.Result) []IngestResult {
	out := make([]IngestResult, len(results))
	for i, r := range results {
		out[i] = IngestResult{
			ID:      r.ID(),
			Status:  IngestStatus(r.Status()),
			Entries: r.Entries(),
			Err:     r.Err(),
		}
	}
	return out
}

