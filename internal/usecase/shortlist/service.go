// Package shortlist matches stored job descriptions and keeps the runs.
package shortlist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	domshort "github.com/OmarAli141/resumes-comparison/internal/domain/shortlist"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// Service matches job descriptions already in the index and records every run.
type Service struct {
	matcher Matcher
	jds     EntryReader
	runs    RunStore
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a shortlist service.
func New(matcher Matcher, jds EntryReader, runs RunStore, logger *zap.Logger) *Service {
	return &Service{matcher: matcher, jds: jds, runs: runs, now: time.Now, logger: logger}
}

// MatchStored loads job description jdID from the job_descriptions collection,
// matches it and saves the run. A missing job description is domain.ErrNotFound.
func (s *Service) MatchStored(ctx context.Context, jdID string, p params.Params) (domshort.Run, error) {
	entry, err := s.jds.Get(ctx, vectorindex.JobDescriptions, jdID)
	if err != nil {
		return domshort.Run{}, fmt.Errorf("load job description: %w", err)
	}

	jd, err := document.New(jdID, entry.Content, map[string]string{
		document.MetaTitle:     entry.Tags["title"],
		document.MetaSeniority: entry.Tags["seniority"],
		document.MetaSource:    vectorindex.JobDescriptions.Name,
	})
	if err != nil {
		return domshort.Run{}, fmt.Errorf("stored job description %s: %w", jdID, err)
	}

	ranked, err := s.matcher.Match(ctx, jd, p)
	if err != nil {
		return domshort.Run{}, err
	}

	run := domshort.NewRun(jdID, p, ranked, s.now())
	if err := s.runs.Save(ctx, run); err != nil {
		return domshort.Run{}, fmt.Errorf("save shortlist: %w", err)
	}

	s.logger.Info("Shortlist saved",
		zap.String("run_id", run.ID),
		zap.String("jd_id", jdID),
		zap.Int("items", len(run.Items)),
		zap.Int("accepted", run.AcceptedCount()),
	)
	return run, nil
}

// List returns the latest runs for a job description, newest first.
func (s *Service) List(ctx context.Context, jdID string, limit int) ([]domshort.Run, error) {
	runs, err := s.runs.ListByJobDescription(ctx, jdID, limit)
	if err != nil {
		return nil, fmt.Errorf("list shortlists: %w", err)
	}
	return runs, nil
}
