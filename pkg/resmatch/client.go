package resmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/db"
	dbRedis "github.com/OmarAli141/resumes-comparison/internal/db/redis"
	"github.com/OmarAli141/resumes-comparison/internal/domain"
	dombatch "github.com/OmarAli141/resumes-comparison/internal/domain/batch"
	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	"github.com/OmarAli141/resumes-comparison/internal/domain/resume"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/titlesnapshot"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
	expansionuc "github.com/OmarAli141/resumes-comparison/internal/usecase/expansion"
	healthuc "github.com/OmarAli141/resumes-comparison/internal/usecase/health"
	ingestuc "github.com/OmarAli141/resumes-comparison/internal/usecase/ingest"
	matchuc "github.com/OmarAli141/resumes-comparison/internal/usecase/match"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultVectorDimensions = 1536
	defaultKeyPrefix        = "resmatch:"
	defaultHNSWM            = 32
	defaultHNSWEFConstruct  = 400
)

// Narrow views of the internal services, replaced by fakes in tests.
type matchUseCase interface {
	Match(ctx context.Context, jd document.Document, p params.Params) (result.Ranked, error)
}

type ingestUseCase interface {
	IngestResumes(ctx context.Context, resumes []resume.Resume) ([]dombatch.Result, error)
	IngestJobDescriptions(ctx context.Context, jds []jobdesc.JobDescription) ([]dombatch.Result, error)
	BuildTitleIndex(ctx context.Context, resumes []resume.Resume) (*title.Snapshot, error)
}

type titleUseCase interface {
	Lookup(ctx context.Context, t string) (title.Set, error)
}

type relatedUseCase interface {
	Related(ctx context.Context, query, seniority string, topK int) ([]titles.Related, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type storeHandle interface {
	Ping(ctx context.Context) error
	Close()
}

// Client is the resmatch library entry point.
type Client struct {
	store     storeHandle
	snapshots *titlesnapshot.Store

	matchSvc   matchUseCase
	ingestSvc  ingestUseCase
	titleSvc   titleUseCase
	relatedSvc relatedUseCase
	healthSvc  healthUseCase

	defaults params.Params
	obs      *observer
}

// New creates a Client, connects to the database and ensures the indexes.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: defaultVectorDimensions,
		keyPrefix:        defaultKeyPrefix,
		hnswM:            defaultHNSWM,
		hnswEFConstruct:  defaultHNSWEFConstruct,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("resmatch: database address required (use WithValkey or WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Driver:   cfg.driver,
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("resmatch: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("resmatch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	logger := zap.NewNop()

	index := vectorindex.New(store, cfg.keyPrefix, cfg.vectorDimensions, vectorindex.HNSWConfig{
		M:           cfg.hnswM,
		EFConstruct: cfg.hnswEFConstruct,
	})
	for _, col := range vectorindex.All {
		if err := index.EnsureIndex(ctx, col); err != nil {
			return nil, fmt.Errorf("resmatch: ensure index %s: %w", col.Name, err)
		}
	}

	var emb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder, dim: cfg.vectorDimensions}
	}

	c := &Client{store: store, defaults: params.Default(), obs: obs}

	titleIndex := titles.NewIndex(false, logger)
	var snapshots ingestuc.SnapshotStore
	if cfg.snapshotPath != "" {
		s, err := titlesnapshot.Open(cfg.snapshotPath, titlesnapshot.DefaultKeep)
		if err != nil {
			return nil, fmt.Errorf("resmatch: open title snapshots: %w", err)
		}
		if err := titleIndex.Load(ctx, s); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("resmatch: %w", err)
		}
		c.snapshots = s
		snapshots = s
	}
	finder := titles.NewFinder(emb, index, logger)

	strategies := []expansionuc.Strategy{expansionuc.Sections{}}
	if cfg.relatedTitles {
		strategies = append(strategies, expansionuc.NewRelatedTitles(finder, cfg.similarity, 0))
	}
	engineOpts := []matchuc.Option{
		matchuc.WithExpander(expansionuc.New(0, logger, strategies...)),
		matchuc.WithTitleIndex(titleIndex),
	}
	if cfg.variantTimeout > 0 {
		engineOpts = append(engineOpts, matchuc.WithVariantTimeout(cfg.variantTimeout))
	}

	c.matchSvc = matchuc.New(emb, index, logger, engineOpts...)
	c.ingestSvc = ingestuc.New(emb, index, snapshots, titleIndex, logger)
	c.titleSvc = titleIndex
	c.relatedSvc = finder
	c.healthSvc = healthuc.New(store, nil, healthuc.WithProbe("title_index", titleIndex.Ready))
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.snapshots != nil {
		_ = c.snapshots.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return domain.NewBackendUnavailable(domain.BackendVectorIndex, err)
	}
	return nil
}

// Match ranks indexed resumes for jd.
func (c *Client) Match(ctx context.Context, jd JobDescription, opts ...MatchOption) (res MatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("match", start, err) }()

	var o matchOverrides
	for _, fn := range opts {
		fn(&o)
	}
	p, err := c.defaults.WithOverrides(o.topKInitial, o.topKFinal, o.minScoreAccept)
	if err != nil {
		return MatchResult{}, err
	}

	doc, err := jdToDocument(jd)
	if err != nil {
		return MatchResult{}, err
	}

	ranked, err := c.matchSvc.Match(ctx, doc, p)
	if err != nil {
		return MatchResult{}, fmt.Errorf("match: %w", err)
	}
	return rankedFromDomain(ranked), nil
}

// IngestResumes embeds and indexes resumes, one entry per non-empty field.
func (c *Client) IngestResumes(ctx context.Context, resumes []Resume) (out []IngestResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest_resumes", start, err) }()

	results, err := c.ingestSvc.IngestResumes(ctx, resumesToDomain(resumes))
	if err != nil {
		return nil, fmt.Errorf("ingest resumes: %w", err)
	}
	return ingestFromDomain(results), nil
}

// IngestJobDescriptions embeds and indexes structured job descriptions.
func (c *Client) IngestJobDescriptions(ctx context.Context, jds []JobDescription) (out []IngestResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest_job_descriptions", start, err) }()

	structured := make([]jobdesc.JobDescription, len(jds))
	for i, jd := range jds {
		structured[i] = jobdesc.FromStructured(jd.ID, positionTitle(jd), sectionsOrText(jd))
	}

	results, err := c.ingestSvc.IngestJobDescriptions(ctx, structured)
	if err != nil {
		return nil, fmt.Errorf("ingest job descriptions: %w", err)
	}
	return ingestFromDomain(results), nil
}

// BuildTitleIndex rebuilds the title index from resumes and returns the number of titles.
func (c *Client) BuildTitleIndex(ctx context.Context, resumes []Resume) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("build_title_index", start, err) }()

	snap, err := c.ingestSvc.BuildTitleIndex(ctx, resumesToDomain(resumes))
	if err != nil {
		return 0, fmt.Errorf("build title index: %w", err)
	}
	return snap.Len(), nil
}

// LookupTitle returns the sorted resume ids filed under t.
func (c *Client) LookupTitle(ctx context.Context, t string) (ids []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("lookup_title", start, err) }()

	set, err := c.titleSvc.Lookup(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("lookup title: %w", err)
	}
	return set.Sorted(), nil
}

// RelatedTitles returns up to topK titles close to query. A seniority word
// inside the query ("analyst senior") filters by seniority.
func (c *Client) RelatedTitles(ctx context.Context, query string, topK int) (out []RelatedTitle, err error) {
	start := time.Now()
	defer func() { c.obs.observe("related_titles", start, err) }()

	q, seniority := title.ParseQuery(query)
	found, err := c.relatedSvc.Related(ctx, q, seniority, topK)
	if err != nil {
		return nil, fmt.Errorf("related titles: %w", err)
	}
	out = make([]RelatedTitle, len(found))
	for i, r := range found {
		out[i] = RelatedTitle(r)
	}
	return out, nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
