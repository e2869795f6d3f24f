package resmatch

import (
	"context"

	dombatch "github.com/OmarAli141/resumes-comparison/internal/domain/batch"
	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	"github.com/OmarAli141/resumes-comparison/internal/domain/resume"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	healthuc "github.com/OmarAli141/resumes-comparison/internal/usecase/health"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

// --- matchUseCase mock ---

type mockMatchUC struct {
	matchFn func(ctx context.Context, jd document.Document, p params.Params) (result.Ranked, error)
}

func (m *mockMatchUC) Match(ctx context.Context, jd document.Document, p params.Params) (result.Ranked, error) {
	return m.matchFn(ctx, jd, p)
}

// --- ingestUseCase mock ---

type mockIngestUC struct {
	resumesFn func(ctx context.Context, resumes []resume.Resume) ([]dombatch.Result, error)
	jdsFn     func(ctx context.Context, jds []jobdesc.JobDescription) ([]dombatch.Result, error)
	titlesFn  func(ctx context.Context, resumes []resume.Resume) (*title.Snapshot, error)
}

func (m *mockIngestUC) IngestResumes(ctx context.Context, resumes []resume.Resume) ([]dombatch.Result, error) {
	return m.resumesFn(ctx, resumes)
}

func (m *mockIngestUC) IngestJobDescriptions(
	ctx context.Context, jds []jobdesc.JobDescription,
) ([]dombatch.Result, error) {
	return m.jdsFn(ctx, jds)
}

func (m *mockIngestUC) BuildTitleIndex(ctx context.Context, resumes []resume.Resume) (*title.Snapshot, error) {
	return m.titlesFn(ctx, resumes)
}

// --- titleUseCase mock ---

type mockTitleUC struct {
	lookupFn func(ctx context.Context, t string) (title.Set, error)
}

func (m *mockTitleUC) Lookup(ctx context.Context, t string) (title.Set, error) {
	return m.lookupFn(ctx, t)
}

// --- relatedUseCase mock ---

type mockRelatedUC struct {
	relatedFn func(ctx context.Context, query, seniority string, topK int) ([]titles.Related, error)
}

func (m *mockRelatedUC) Related(ctx context.Context, query, seniority string, topK int) ([]titles.Related, error) {
	return m.relatedFn(ctx, query, seniority, topK)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- Embedder mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchFn func(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

// --- Store mock ---

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }
func (m *mockStore) Close()                       { m.closed = true }
