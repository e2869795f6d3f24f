package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveAuth(keys []string, path, header string) *httptest.ResponseRecorder {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	BearerAuthMiddleware(keys)(ok).ServeHTTP(rr, req)
	return rr
}

func TestBearerAuth(t *testing.T) {
	keys := []string{"key-one", " key-two "}

	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"disabled without keys", nil, "/api/v1/match", "", http.StatusOK},
		{"blank keys disable auth", []string{"", "  "}, "/api/v1/match", "", http.StatusOK},
		{"missing header", keys, "/api/v1/match", "", http.StatusUnauthorized},
		{"basic scheme", keys, "/api/v1/match", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"scheme without token", keys, "/api/v1/match", "Bearer", http.StatusUnauthorized},
		{"unknown key", keys, "/api/v1/match", "Bearer nope", http.StatusUnauthorized},
		{"first key", keys, "/api/v1/match", "Bearer key-one", http.StatusOK},
		{"trimmed second key", keys, "/api/v1/titles/lookup", "Bearer key-two", http.StatusOK},
		{"lowercase scheme", keys, "/api/v1/match", "bearer key-one", http.StatusOK},
		{"health is public", keys, "/health", "", http.StatusOK},
		{"metrics is public", keys, "/metrics", "", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := serveAuth(tc.keys, tc.path, tc.header)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestBearerAuth_ErrorBody(t *testing.T) {
	rr := serveAuth([]string{"secret"}, "/api/v1/match", "Bearer wrong")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, codeUnauthorized, body.Code)
	assert.Equal(t, "invalid api key", body.Message)
}
