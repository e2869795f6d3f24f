// Package ingest loads resumes and job descriptions into the vector index and
// builds the title index.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	dombatch "github.com/OmarAli141/resumes-comparison/internal/domain/batch"
	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/domain/resume"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// DefaultChunkSize is the number of records embedded and written per round-trip.
const DefaultChunkSize = 100

const sourceResumes = "resumes"

var errDuplicateID = errors.New("duplicate id")

// Service runs the offline ingestion pipeline.
type Service struct {
	embedder  domain.Embedder
	index     VectorIndex
	snapshots SnapshotStore
	publisher Publisher
	chunkSize int
	now       func() time.Time
	logger    *zap.Logger
}

// New creates an ingestion service. snapshots and publisher may be nil when
// the title index is not built by this process.
func New(
	embedder domain.Embedder, index VectorIndex,
	snapshots SnapshotStore, publisher Publisher, logger *zap.Logger,
) *Service {
	return &Service{
		embedder:  embedder,
		index:     index,
		snapshots: snapshots,
		publisher: publisher,
		chunkSize: DefaultChunkSize,
		now:       time.Now,
		logger:    logger,
	}
}

// WithChunkSize configures how many records are embedded per round-trip.
func (s *Service) WithChunkSize(n int) *Service {
	if n > 0 {
		s.chunkSize = n
	}
	return s
}

// IngestResumes embeds every non-empty resume field and writes one entry per
// field keyed "{id}:{field}". Invalid records and records whose embedding
// fails are reported per item; an unreachable index aborts the run.
func (s *Service) IngestResumes(ctx context.Context, resumes []resume.Resume) ([]dombatch.Result, error) {
	if err := s.index.EnsureIndex(ctx, vectorindex.Resumes); err != nil {
		return nil, fmt.Errorf("ensure resumes index: %w", err)
	}

	results := make([]dombatch.Result, len(resumes))
	seen := make(map[string]struct{}, len(resumes))
	valid := make([]int, 0, len(resumes))
	for i, r := range resumes {
		if err := r.Validate(); err != nil {
			results[i] = dombatch.NewError(r.ID, err)
			continue
		}
		if _, dup := seen[r.ID]; dup {
			results[i] = dombatch.NewSkipped(r.ID, errDuplicateID)
			continue
		}
		seen[r.ID] = struct{}{}
		valid = append(valid, i)
	}

	for start := 0; start < len(valid); start += s.chunkSize {
		chunk := valid[start:min(start+s.chunkSize, len(valid))]
		if err := s.ingestResumeChunk(ctx, resumes, chunk, results); err != nil {
			return results, err
		}
	}

	s.logSummary("Resumes ingested", results)
	return results, nil
}

func (s *Service) ingestResumeChunk(
	ctx context.Context, resumes []resume.Resume, chunk []int, results []dombatch.Result,
) error {
	var (
		texts []string
		owner []int
		entry []vectorindex.Entry
	)
	for _, i := range chunk {
		r := resumes[i]
		for _, f := range r.Fields() {
			texts = append(texts, f.Text)
			owner = append(owner, i)
			entry = append(entry, vectorindex.Entry{
				Key:     r.ID + ":" + f.Type,
				Content: f.Text,
				Tags: map[string]string{
					"resume_id":  r.ID,
					"category":   r.CategoryOrUnknown(),
					"field_type": f.Type,
					"source":     sourceResumes,
				},
			})
		}
	}

	emb, err := domain.BatchEmbed(ctx, s.embedder, texts)
	if err == nil && len(emb.Embeddings) != len(texts) {
		err = fmt.Errorf("got %d embeddings for %d texts: %w",
			len(emb.Embeddings), len(texts), domain.ErrEmbeddingProviderError)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for _, i := range chunk {
			results[i] = dombatch.NewError(resumes[i].ID, fmt.Errorf("embed: %w", err))
		}
		s.logger.Warn("Resume chunk embedding failed", zap.Int("resumes", len(chunk)), zap.Error(err))
		return nil
	}
	for j := range entry {
		entry[j].Vector = emb.Embeddings[j]
	}

	if err := s.index.Upsert(ctx, vectorindex.Resumes, entry); err != nil {
		return fmt.Errorf("upsert resumes: %w", err)
	}

	counts := make(map[int]int, len(chunk))
	for _, i := range owner {
		counts[i]++
	}
	for _, i := range chunk {
		results[i] = dombatch.NewOK(resumes[i].ID, counts[i])
	}
	return nil
}

// IngestJobDescriptions embeds each job description's full text into the
// job_descriptions collection, keyed by id.
func (s *Service) IngestJobDescriptions(
	ctx context.Context, jds []jobdesc.JobDescription,
) ([]dombatch.Result, error) {
	if err := s.index.EnsureIndex(ctx, vectorindex.JobDescriptions); err != nil {
		return nil, fmt.Errorf("ensure job descriptions index: %w", err)
	}

	results := make([]dombatch.Result, len(jds))
	seen := make(map[string]struct{}, len(jds))
	var (
		texts   []string
		entries []vectorindex.Entry
		idx     []int
	)
	for i, jd := range jds {
		doc, err := jd.Document()
		if err != nil {
			results[i] = dombatch.NewError(jd.ID, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))
			continue
		}
		if _, dup := seen[doc.ID()]; dup {
			results[i] = dombatch.NewSkipped(doc.ID(), errDuplicateID)
			continue
		}
		seen[doc.ID()] = struct{}{}

		texts = append(texts, doc.Text())
		idx = append(idx, i)
		entries = append(entries, vectorindex.Entry{
			Key:     doc.ID(),
			Content: doc.Text(),
			Tags: map[string]string{
				"jd_id":     doc.ID(),
				"title":     doc.Title(),
				"seniority": doc.Meta(document.MetaSeniority),
			},
		})
	}

	for start := 0; start < len(texts); start += s.chunkSize {
		end := min(start+s.chunkSize, len(texts))
		emb, err := domain.BatchEmbed(ctx, s.embedder, texts[start:end])
		if err == nil && len(emb.Embeddings) != end-start {
			err = fmt.Errorf("got %d embeddings for %d texts: %w",
				len(emb.Embeddings), end-start, domain.ErrEmbeddingProviderError)
		}
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			for _, i := range idx[start:end] {
				results[i] = dombatch.NewError(jds[i].ID, fmt.Errorf("embed: %w", err))
			}
			continue
		}
		for j := start; j < end; j++ {
			entries[j].Vector = emb.Embeddings[j-start]
		}
		if err := s.index.Upsert(ctx, vectorindex.JobDescriptions, entries[start:end]); err != nil {
			return results, fmt.Errorf("upsert job descriptions: %w", err)
		}
		for _, i := range idx[start:end] {
			results[i] = dombatch.NewOK(jds[i].ID, 1)
		}
	}

	s.logSummary("Job descriptions ingested", results)
	return results, nil
}

// BuildTitleIndex derives a clean title for every resume, groups resume ids by
// canonical title, persists and publishes the snapshot, then indexes the
// unique titles into job_titles for related-title search.
func (s *Service) BuildTitleIndex(ctx context.Context, resumes []resume.Resume) (*title.Snapshot, error) {
	b := title.NewBuilder()
	categories := make(map[string]string)
	skipped := 0
	for _, r := range resumes {
		t := r.Title()
		if t == "" || r.ID == "" {
			skipped++
			continue
		}
		b.Add(t, r.ID)
		key := title.Canonicalize(t)
		if _, ok := categories[key]; !ok {
			categories[key] = r.CategoryOrUnknown()
		}
	}

	now := s.now().UTC()
	snap := b.Build(now.Format("20060102T150405Z"), now)
	if snap.Len() == 0 {
		return nil, fmt.Errorf("no titles derived from %d resumes: %w", len(resumes), domain.ErrInvalidInput)
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, snap); err != nil {
			return nil, fmt.Errorf("save title snapshot: %w", err)
		}
	}
	if s.publisher != nil {
		s.publisher.Publish(snap)
	}

	s.logger.Info("Title index built",
		zap.String("version", snap.Version()),
		zap.Int("titles", snap.Len()),
		zap.Int("resumes", len(resumes)),
		zap.Int("skipped", skipped),
	)

	if err := s.indexTitles(ctx, snap, categories); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *Service) indexTitles(ctx context.Context, snap *title.Snapshot, categories map[string]string) error {
	// titles dropped from the snapshot must not linger in related-title search
	if err := s.index.Reset(ctx, vectorindex.JobTitles); err != nil {
		return fmt.Errorf("reset job titles index: %w", err)
	}

	all := snap.Entries()
	for start := 0; start < len(all); start += s.chunkSize {
		chunk := all[start:min(start+s.chunkSize, len(all))]
		texts := make([]string, len(chunk))
		for i, e := range chunk {
			texts[i] = e.Display
		}

		emb, err := domain.BatchEmbed(ctx, s.embedder, texts)
		if err != nil {
			return fmt.Errorf("embed titles: %w", err)
		}
		if len(emb.Embeddings) != len(chunk) {
			return fmt.Errorf("got %d embeddings for %d titles: %w",
				len(emb.Embeddings), len(chunk), domain.ErrEmbeddingProviderError)
		}

		entries := make([]vectorindex.Entry, len(chunk))
		for i, e := range chunk {
			id := titleID(e.Canonical)
			entries[i] = vectorindex.Entry{
				Key:     id,
				Content: e.Display,
				Vector:  emb.Embeddings[i],
				Tags: map[string]string{
					"title_id":  id,
					"seniority": e.Seniority,
					"category":  categories[e.Canonical],
				},
			}
		}
		if err := s.index.Upsert(ctx, vectorindex.JobTitles, entries); err != nil {
			return fmt.Errorf("upsert job titles: %w", err)
		}
	}
	return nil
}

// titleID turns a canonical title into a key-safe id.
func titleID(canonical string) string {
	return strings.ReplaceAll(canonical, " ", "-")
}

func (s *Service) logSummary(msg string, results []dombatch.Result) {
	sum := dombatch.Summarize(results)
	s.logger.Info(msg,
		zap.Int("total", sum.Total),
		zap.Int("ok", sum.OK),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
		zap.Int("entries", sum.Entries),
	)
}
