package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/config"
	"github.com/OmarAli141/resumes-comparison/internal/db"
	dbRedis "github.com/OmarAli141/resumes-comparison/internal/db/redis"
	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/metrics"
	"github.com/OmarAli141/resumes-comparison/internal/repository/embcache"
	shortlistrepo "github.com/OmarAli141/resumes-comparison/internal/repository/shortlist"
	"github.com/OmarAli141/resumes-comparison/internal/repository/titlesnapshot"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
	geminiTransport "github.com/OmarAli141/resumes-comparison/internal/transport/gemini"
	openaiTransport "github.com/OmarAli141/resumes-comparison/internal/transport/openai"
	embeddinguc "github.com/OmarAli141/resumes-comparison/internal/usecase/embedding"
	expansionuc "github.com/OmarAli141/resumes-comparison/internal/usecase/expansion"
	healthuc "github.com/OmarAli141/resumes-comparison/internal/usecase/health"
	ingestuc "github.com/OmarAli141/resumes-comparison/internal/usecase/ingest"
	matchuc "github.com/OmarAli141/resumes-comparison/internal/usecase/match"
	shortlistuc "github.com/OmarAli141/resumes-comparison/internal/usecase/shortlist"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

// app is the composition root shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	defaults params.Params

	store     db.Store
	index     *vectorindex.Repo
	snapshots *titlesnapshot.Store
	runs      *shortlistrepo.Store

	docEmbedder   domain.Embedder
	queryEmbedder domain.Embedder

	titleIndex *titles.Index
	finder     *titles.Finder
	engine     *matchuc.Engine
	shortlists *shortlistuc.Service
	ingest     *ingestuc.Service
	health     *healthuc.Service
}

// newApp connects to every backend and wires the services.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	defaults, err := cfg.Matching.Params()
	if err != nil {
		return nil, fmt.Errorf("matching params: %w", err)
	}
	boost, err := cfg.Matching.Boost()
	if err != nil {
		return nil, fmt.Errorf("title boost: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, defaults: defaults}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Driver:   cfg.Database.Driver,
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	a.store = store

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		a.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.Strings("addrs", cfg.Database.Addrs),
	)

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchMetrics()

	a.docEmbedder = buildEmbedder(cfg.Embedding, cfg.Embedding.DocumentInstruction, cfg.Storage.KeyPrefix, store, logger)
	a.queryEmbedder = buildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, cfg.Storage.KeyPrefix, store, logger)
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	a.index = vectorindex.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions, vectorindex.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	for _, c := range vectorindex.All {
		if err := a.index.EnsureIndex(ctx, c); err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure index %s: %w", c.Name, err)
		}
	}

	a.snapshots, err = titlesnapshot.Open(cfg.TitleIndex.Path, cfg.TitleIndex.Keep)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open title index store: %w", err)
	}
	a.titleIndex = titles.NewIndex(cfg.TitleIndex.Required, logger)
	if err := a.titleIndex.Load(ctx, a.snapshots); err != nil {
		a.Close()
		return nil, err
	}
	a.finder = titles.NewFinder(a.queryEmbedder, a.index, logger)

	expander, err := buildExpander(ctx, cfg.Expansion, a.finder, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.engine = matchuc.New(a.queryEmbedder, a.index, logger,
		matchuc.WithExpander(expander),
		matchuc.WithTitleIndex(a.titleIndex),
		matchuc.WithBoost(boost),
		matchuc.WithVariantTimeout(cfg.Matching.VariantTimeout),
		matchuc.WithMaxParallel(cfg.Matching.MaxParallel),
		matchuc.WithOverfetch(cfg.Matching.Overfetch),
	)

	a.runs, err = shortlistrepo.Open(cfg.Shortlist.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open shortlist store: %w", err)
	}
	a.shortlists = shortlistuc.New(a.engine, a.index, a.runs, logger)

	a.ingest = ingestuc.New(a.docEmbedder, a.index, a.snapshots, a.titleIndex, logger)

	a.health = healthuc.New(store, newEmbeddingHealthChecker(a.queryEmbedder),
		healthuc.WithProbe("title_index", a.titleIndex.Ready),
		healthuc.WithProbe("shortlist_store", a.runs.Ping),
	)
	return a, nil
}

// Close releases every opened backend.
func (a *app) Close() {
	var errs []error
	if a.runs != nil {
		errs = append(errs, a.runs.Close())
	}
	if a.snapshots != nil {
		errs = append(errs, a.snapshots.Close())
	}
	if a.store != nil {
		a.store.Close()
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("Error closing stores", zap.Error(err))
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	instruction, keyPrefix string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: keyPrefix,
			Model:     cfg.Model,
			TTL:       cfg.CacheTTL,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger,
		embeddinguc.WithMaxBatch(cfg.MaxBatch))

	// Outermost so the cache key includes the instruction
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

func buildExpander(
	ctx context.Context, cfg config.ExpansionConfig, finder *titles.Finder, logger *zap.Logger,
) (*expansionuc.Service, error) {
	var strategies []expansionuc.Strategy
	if cfg.Sections {
		strategies = append(strategies, expansionuc.Sections{})
	}
	if cfg.RelatedTitles.Enabled {
		strategies = append(strategies,
			expansionuc.NewRelatedTitles(finder, cfg.RelatedTitles.Threshold, cfg.RelatedTitles.MaxSimilar))
	}
	if cfg.Paraphrase.Enabled {
		p, err := buildParaphraser(ctx, cfg.Paraphrase, logger)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, expansionuc.NewParaphrase(p, cfg.Paraphrase.MaxParaphrases))
	}
	return expansionuc.New(cfg.MaxVariants, logger, strategies...), nil
}

func buildParaphraser(ctx context.Context, cfg config.ParaphraseConfig, logger *zap.Logger) (domain.Paraphraser, error) {
	switch cfg.Provider {
	case "gemini":
		p, err := geminiTransport.NewParaphraser(ctx, &geminiTransport.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini paraphraser: %w", err)
		}
		return p, nil
	default:
		return openaiTransport.NewParaphraser(&openaiTransport.ParaphraserConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Logger:      logger,
		}), nil
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
