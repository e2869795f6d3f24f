package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	domshort "github.com/OmarAli141/resumes-comparison/internal/domain/shortlist"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	logpkg "github.com/OmarAli141/resumes-comparison/internal/logger"
	"github.com/OmarAli141/resumes-comparison/internal/metrics"
	healthuc "github.com/OmarAli141/resumes-comparison/internal/usecase/health"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

// maxBodyBytes caps request bodies; job descriptions are well under this.
const maxBodyBytes = 1 << 20

// Matcher ranks resumes for one job description.
type Matcher interface {
	Match(ctx context.Context, jd document.Document, p params.Params) (result.Ranked, error)
}

// Shortlists matches stored job descriptions and lists persisted runs.
type Shortlists interface {
	MatchStored(ctx context.Context, jdID string, p params.Params) (domshort.Run, error)
	List(ctx context.Context, jdID string, limit int) ([]domshort.Run, error)
}

// TitleLookup resolves a job title to its member resume ids.
type TitleLookup interface {
	Lookup(ctx context.Context, t string) (title.Set, error)
}

// RelatedFinder searches related job titles.
type RelatedFinder interface {
	Related(ctx context.Context, query, seniority string, topK int) ([]titles.Related, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the matching HTTP API.
type Server struct {
	matcher       Matcher
	shortlists    Shortlists
	titles        TitleLookup
	related       RelatedFinder
	health        HealthChecker
	defaults      params.Params
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithShortlists enables the stored job description routes.
func WithShortlists(s Shortlists) Option { return func(srv *Server) { srv.shortlists = s } }

// WithTitleLookup enables GET /api/v1/titles/lookup.
func WithTitleLookup(t TitleLookup) Option { return func(srv *Server) { srv.titles = t } }

// WithRelatedFinder enables GET /api/v1/titles/related.
func WithRelatedFinder(f RelatedFinder) Option { return func(srv *Server) { srv.related = f } }

// NewServer creates an HTTP API server. defaults apply when a request carries no overrides.
func NewServer(
	matcher Matcher,
	health HealthChecker,
	defaults params.Params,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		matcher:       matcher,
		health:        health,
		defaults:      defaults,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/match", s.Match)
		if s.shortlists != nil {
			r.Post("/job-descriptions/{id}/match", s.MatchStored)
			r.Get("/job-descriptions/{id}/shortlists", s.ListShortlists)
		}
		if s.titles != nil {
			r.Get("/titles/lookup", s.LookupTitle)
		}
		if s.related != nil {
			r.Get("/titles/related", s.RelatedTitles)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
	return r
}

// Match handles POST /api/v1/match.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.defaults.WithOverrides(req.TopKInitial, req.TopKFinal, req.MinScoreAccept)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	doc, err := jdToDocument(req.JobDescription)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	logpkg.Annotate(r.Context(), zap.String("jd_id", doc.ID()))
	ranked, err := s.matcher.Match(r.Context(), doc, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logpkg.Annotate(r.Context(),
		zap.Int("variants", len(ranked.Variants())),
		zap.Int("soft_failures", ranked.SoftFailureCount()),
		zap.Int("returned", ranked.Len()),
	)
	writeJSON(w, http.StatusOK, matchToResponse(doc.ID(), ranked))
}

// MatchStored handles POST /api/v1/job-descriptions/{id}/match.
// The body is optional and carries only parameter overrides.
func (s *Server) MatchStored(w http.ResponseWriter, r *http.Request) {
	var req ParamsOverride
	if r.ContentLength > 0 && !s.decode(w, r, &req) {
		return
	}

	p, err := s.defaults.WithOverrides(req.TopKInitial, req.TopKFinal, req.MinScoreAccept)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	jdID := chi.URLParam(r, "id")
	logpkg.Annotate(r.Context(), zap.String("jd_id", jdID))
	run, err := s.shortlists.MatchStored(r.Context(), jdID, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logpkg.Annotate(r.Context(), zap.String("run_id", run.ID))
	writeJSON(w, http.StatusCreated, shortlistToResponse(run))
}

// ListShortlists handles GET /api/v1/job-descriptions/{id}/shortlists.
func (s *Server) ListShortlists(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.shortlists.List(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := ShortlistListResponse{Items: make([]ShortlistResponse, len(runs)), Count: len(runs)}
	for i, run := range runs {
		resp.Items[i] = shortlistToResponse(run)
	}
	writeJSON(w, http.StatusOK, resp)
}

// LookupTitle handles GET /api/v1/titles/lookup?title=.
func (s *Server) LookupTitle(w http.ResponseWriter, r *http.Request) {
	t := strings.TrimSpace(r.URL.Query().Get("title"))
	if t == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "title is required")
		return
	}

	set, err := s.titles.Lookup(r.Context(), t)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	members := set.Sorted()
	writeJSON(w, http.StatusOK, TitleLookupResponse{
		Title:     t,
		Canonical: title.Canonicalize(t),
		Members:   members,
		Count:     len(members),
	})
}

// RelatedTitles handles GET /api/v1/titles/related?q=&seniority=&top_k=.
// A seniority word inside q is used when no explicit seniority is given.
func (s *Server) RelatedTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, seniority := title.ParseQuery(q.Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "q is required")
		return
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get("seniority"))); v != "" {
		if !title.IsLevel(v) {
			writeError(w, http.StatusBadRequest, codeBadRequest, "unknown seniority: "+v)
			return
		}
		seniority = v
	}

	topK := titles.DefaultRelatedTopK
	if v := q.Get("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > titles.MaxRelatedTopK {
			writeError(w, http.StatusBadRequest, codeBadRequest,
				"top_k must be between 1 and "+strconv.Itoa(titles.MaxRelatedTopK))
			return
		}
		topK = n
	}

	found, err := s.related.Related(r.Context(), query, seniority, topK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, relatedToResponse(query, seniority, found))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// jdToDocument accepts either free text or the structured extraction output.
func jdToDocument(req JobDescriptionRequest) (document.Document, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	if req.PositionTitle != "" || len(req.ModelResponse) > 0 {
		return jobdesc.FromStructured(id, req.PositionTitle, req.ModelResponse).Document()
	}

	meta := map[string]string{document.MetaSource: "request"}
	if t := strings.TrimSpace(req.Title); t != "" {
		meta[document.MetaTitle] = t
		meta[document.MetaSeniority] = title.DetectSeniority(t)
	}
	return document.New(id, req.Text, meta)
}
