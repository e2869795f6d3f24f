package chi

import (
	"time"

	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	domshort "github.com/OmarAli141/resumes-comparison/internal/domain/shortlist"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

// errorCode is the machine-readable error code returned in ErrorResponse.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeUnauthorized       errorCode = "unauthorized"
	codeConfiguration      errorCode = "configuration_error"
	codeNotFound           errorCode = "not_found"
	codeProviderError      errorCode = "embedding_provider_error"
	codeExpansionError     errorCode = "expansion_provider_error"
	codeRetrievalFailed    errorCode = "retrieval_failed"
	codeBackendUnavailable errorCode = "backend_unavailable"
	codeInternalError      errorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
	Backend string    `json:"backend,omitempty"`
}

// JobDescriptionRequest is either free text or the structured extraction
// output (position_title + model_response).
type JobDescriptionRequest struct {
	ID            string         `json:"id,omitempty"`
	Title         string         `json:"title,omitempty"`
	Text          string         `json:"text,omitempty"`
	PositionTitle string         `json:"position_title,omitempty"`
	ModelResponse map[string]any `json:"model_response,omitempty"`
}

// ParamsOverride replaces the configured match parameters for one call.
type ParamsOverride struct {
	TopKInitial    *int     `json:"top_k_initial,omitempty"`
	TopKFinal      *int     `json:"top_k_final,omitempty"`
	MinScoreAccept *float64 `json:"min_score_accept,omitempty"`
}

// MatchRequest is the body of POST /api/v1/match.
type MatchRequest struct {
	JobDescription JobDescriptionRequest `json:"job_description"`
	ParamsOverride
}

// MatchItem is one ranked resume.
type MatchItem struct {
	Rank     int     `json:"rank"`
	ResumeID string  `json:"resume_id"`
	Title    string  `json:"title,omitempty"`
	Score    float64 `json:"score"`
	Distance float64 `json:"distance"`
	Accepted bool    `json:"accepted"`
	Boosted  bool    `json:"boosted"`
}

// SoftFailure is an omitted query variant.
type SoftFailure struct {
	Variant int    `json:"variant"`
	Text    string `json:"text"`
	Reason  string `json:"reason"`
}

// MatchResponse is the ranked result of a match call.
type MatchResponse struct {
	JobDescriptionID string        `json:"jd_id,omitempty"`
	Variants         []string      `json:"variants"`
	Items            []MatchItem   `json:"items"`
	AcceptedCount    int           `json:"accepted_count"`
	PoolSize         int           `json:"pool_size"`
	SoftFailures     []SoftFailure `json:"soft_failures"`
}

// ShortlistResponse is one stored run.
type ShortlistResponse struct {
	ID               string        `json:"id"`
	JobDescriptionID string        `json:"jd_id"`
	CreatedAt        time.Time     `json:"created_at"`
	TopKInitial      int           `json:"top_k_initial"`
	TopKFinal        int           `json:"top_k_final"`
	MinScoreAccept   float64       `json:"min_score_accept"`
	Variants         []string      `json:"variants"`
	Items            []MatchItem   `json:"items"`
	AcceptedCount    int           `json:"accepted_count"`
	SoftFailures     []SoftFailure `json:"soft_failures"`
}

// ShortlistListResponse lists runs for one job description.
type ShortlistListResponse struct {
	Items []ShortlistResponse `json:"items"`
	Count int                 `json:"count"`
}

// TitleLookupResponse is the member set of a canonical title.
type TitleLookupResponse struct {
	Title     string   `json:"title"`
	Canonical string   `json:"canonical"`
	Members   []string `json:"members"`
	Count     int      `json:"count"`
}

// RelatedTitle is one related title hit.
type RelatedTitle struct {
	Title     string  `json:"title"`
	Seniority string  `json:"seniority,omitempty"`
	Category  string  `json:"category,omitempty"`
	Score     float64 `json:"score"`
}

// RelatedTitlesResponse lists related titles.
type RelatedTitlesResponse struct {
	Query     string         `json:"query"`
	Seniority string         `json:"seniority,omitempty"`
	Items     []RelatedTitle `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func matchToResponse(jdID string, r result.Ranked) MatchResponse {
	items := r.Items()
	resp := MatchResponse{
		JobDescriptionID: jdID,
		Variants:         r.Variants(),
		Items:            make([]MatchItem, len(items)),
		AcceptedCount:    r.AcceptedCount(),
		PoolSize:         r.PoolSize(),
		SoftFailures:     make([]SoftFailure, 0, r.SoftFailureCount()),
	}
	for i, it := range items {
		resp.Items[i] = MatchItem{
			Rank:     i + 1,
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
		resp.SoftFailures = append(resp.SoftFailures, SoftFailure{Variant: f.Variant, Text: f.Text, Reason: reason})
	}
	return resp
}

func shortlistToResponse(run domshort.Run) ShortlistResponse {
	resp := ShortlistResponse{
		ID:               run.ID,
		JobDescriptionID: run.JobDescriptionID,
		CreatedAt:        run.CreatedAt,
		TopKInitial:      run.TopKInitial,
		TopKFinal:        run.TopKFinal,
		MinScoreAccept:   run.MinScoreAccept,
		Variants:         run.Variants,
		Items:            make([]MatchItem, len(run.Items)),
		AcceptedCount:    run.AcceptedCount(),
		SoftFailures:     make([]SoftFailure, len(run.SoftFailures)),
	}
	for i, it := range run.Items {
		resp.Items[i] = MatchItem(it)
	}
	for i, f := range run.SoftFailures {
		resp.SoftFailures[i] = SoftFailure(f)
	}
	return resp
}

func relatedToResponse(query, seniority string, found []titles.Related) RelatedTitlesResponse {
	resp := RelatedTitlesResponse{Query: query, Seniority: seniority, Items: make([]RelatedTitle, len(found))}
	for i, r := range found {
		resp.Items[i] = RelatedTitle(r)
	}
	return resp
}
