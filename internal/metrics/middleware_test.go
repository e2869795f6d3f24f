package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRouteAndStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/v1/match", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})
	r.Get("/api/v1/titles/lookup", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	tests := []struct {
		method string
		path   string
		route  string
		status string
	}{
		{"POST", "/api/v1/match", "/api/v1/match", "200"},
		{"GET", "/api/v1/titles/lookup?title=Accountant", "/api/v1/titles/lookup", "404"},
		{"GET", "/health", "/health", "503"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.route, func(t *testing.T) {
			c := httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status)
			before := testutil.ToFloat64(c)

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, http.NoBody))

			if got := testutil.ToFloat64(c); got != before+1 {
				t.Errorf("requests_total = %v, want %v", got, before+1)
			}
		})
	}

	if n := testutil.CollectAndCount(httpRequestDuration); n == 0 {
		t.Error("expected duration observations")
	}
}

func TestRouteLabel(t *testing.T) {
	if got := routeLabel(nil); got != unmatchedRoute {
		t.Errorf("routeLabel(nil) = %q", got)
	}

	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/job-descriptions/{id}/shortlists", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"jd_1", "jd_2"} {
		req := httptest.NewRequest("GET", "/api/v1/job-descriptions/"+id+"/shortlists", http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/job-descriptions/{id}/shortlists", "200"))
	if val < 2 {
		t.Errorf("expected both ids under one route label, got %f", val)
	}
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) {})

	req := httptest.NewRequest("GET", "/nope", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")); val < 1 {
		t.Errorf("expected unmatched 404 to be counted, got %f", val)
	}
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("in-flight gauge = %f, want 0", got)
	}
}

func TestMetricsHandler_ExposesMatchMetrics(t *testing.T) {
	RegisterMatchMetrics()
	MatchRequestsTotal.WithLabelValues("ok").Inc()

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	if !strings.Contains(string(body), "resmatch_match_requests_total") {
		t.Error("expected resmatch_match_requests_total in exposition")
	}
}

func TestRegisterEmbeddingMetrics_Idempotent(t *testing.T) {
	RegisterEmbeddingMetrics()
	RegisterEmbeddingMetrics()

	EmbeddingBatchSize.WithLabelValues("openai", "m").Observe(32)
	if n := testutil.CollectAndCount(EmbeddingBatchSize); n != 1 {
		t.Errorf("expected 1 batch size series, got %d", n)
	}
}

func TestRegisterMatchMetrics_Idempotent(t *testing.T) {
	RegisterMatchMetrics()
	RegisterMatchMetrics()

	before := testutil.ToFloat64(MatchSoftFailuresTotal.WithLabelValues("timeout"))
	MatchSoftFailuresTotal.WithLabelValues("timeout").Inc()
	if got := testutil.ToFloat64(MatchSoftFailuresTotal.WithLabelValues("timeout")); got != before+1 {
		t.Errorf("expected soft failures %v, got %v", before+1, got)
	}
}
