// Package shortlist describes a persisted match run.
package shortlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
)

// Item is one ranked resume in a run.
type Item struct {
	Rank     int
	ResumeID string
	Title    string
	Score    float64
	Distance float64
	Accepted bool
	Boosted  bool
}

// SoftFailure is a variant omitted from a run.
type SoftFailure struct {
	Variant int
	Text    string
	Reason  string
}

// Run is a stored match result for one job description.
type Run struct {
	ID               string
	JobDescriptionID string
	CreatedAt        time.Time
	TopKInitial      int
	TopKFinal        int
	MinScoreAccept   float64
	Variants         []string
	Items            []Item
	SoftFailures     []SoftFailure
}

// AcceptedCount returns how many items passed the threshold.
func (r Run) AcceptedCount() int {
	n := 0
	for _, it := range r.Items {
		if it.Accepted {
			n++
		}
	}
	return n
}

// NewRun captures a ranked result under a fresh run id.
func NewRun(jdID string, p params.Params, r result.Ranked, now time.Time) Run {
	items := r.Items()
	run := Run{
		ID:               uuid.NewString(),
		JobDescriptionID: jdID,
		CreatedAt:        now.UTC(),
		TopKInitial:      p.TopKInitial(),
		TopKFinal:        p.TopKFinal(),
		MinScoreAccept:   p.MinScoreAccept(),
		Variants:         r.Variants(),
		Items:            make([]Item, 0, len(items)),
	}

	for i, it := range items {
		run.Items = append(run.Items, Item{
			Rank:     i + 1,
			ResumeID: it.ID,
			Title:    it.Title(),
			Score:    it.Score,
			Distance: it.Distance,
			Accepted: it.Accepted,
			Boosted:  it.Boosted,
		})
	}
	for _, f := range r.SoftFailures() {
		reason := ""
		if f.Err != nil {
			reason = f.Err.Error()
		}
		run.SoftFailures = append(run.SoftFailures, SoftFailure{Variant: f.Variant, Text: f.Text, Reason: reason})
	}
	return run
}
