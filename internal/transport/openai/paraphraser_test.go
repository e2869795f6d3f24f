package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "Senior Accountant") {
			t.Errorf("prompt does not carry the query: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   req.Model,
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
			"usage":   map[string]any{"prompt_tokens": 30, "completion_tokens": 20, "total_tokens": 50},
		})
	}))
}

func TestParaphraser_Paraphrase(t *testing.T) {
	server := chatServer(t, http.StatusOK, "1. Lead accountant\n2. Senior financial accountant\n3. Accounting manager")
	defer server.Close()

	p := NewParaphraser(&ParaphraserConfig{APIKey: "k", BaseURL: server.URL, Logger: zap.NewNop()})

	got, err := p.Paraphrase(context.Background(), "Senior Accountant", 2)
	if err != nil {
		t.Fatalf("Paraphrase failed: %v", err)
	}
	if len(got) != 2 || got[0] != "Lead accountant" || got[1] != "Senior financial accountant" {
		t.Errorf("unexpected paraphrases: %v", got)
	}
}

func TestParaphraser_ProviderError(t *testing.T) {
	server := chatServer(t, http.StatusServiceUnavailable, "")
	defer server.Close()

	p := NewParaphraser(&ParaphraserConfig{APIKey: "k", BaseURL: server.URL, Logger: zap.NewNop()})

	_, err := p.Paraphrase(context.Background(), "Senior Accountant", 2)
	if !errors.Is(err, domain.ErrExpansionProviderError) {
		t.Fatalf("expected ErrExpansionProviderError, got %v", err)
	}
}

func TestParaphraser_ZeroRequested(t *testing.T) {
	p := NewParaphraser(&ParaphraserConfig{APIKey: "k", BaseURL: "http://unused", Logger: zap.NewNop()})

	got, err := p.Paraphrase(context.Background(), "Senior Accountant", 0)
	if err != nil || got != nil {
		t.Fatalf("expected no call and no result, got %v, %v", got, err)
	}
}
