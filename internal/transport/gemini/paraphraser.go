// Package gemini provides a query paraphraser backed by the Google GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/expansion"
)

const defaultModel = "gemini-2.5-flash"

// contentGenerator is the consumer interface over genai.Models.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Paraphraser produces query rewrites with a Gemini model.
type Paraphraser struct {
	models      contentGenerator
	model       string
	temperature float32
	logger      *zap.Logger
}

// Config holds the Gemini settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// NewParaphraser creates a client for the Gemini API backend.
func NewParaphraser(ctx context.Context, cfg *Config) (*Paraphraser, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newParaphraser(client.Models, cfg), nil
}

func newParaphraser(models contentGenerator, cfg *Config) *Paraphraser {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Paraphraser{models: models, model: model, temperature: cfg.Temperature, logger: logger}
}

// Paraphrase implements domain.Paraphraser.
func (p *Paraphraser) Paraphrase(ctx context.Context, text string, n int) ([]string, error) {
	if n < 1 {
		return nil, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text: %w", domain.ErrInvalidInput)
	}

	var config *genai.GenerateContentConfig
	if p.temperature > 0 {
		config = &genai.GenerateContentConfig{Temperature: genai.Ptr(p.temperature)}
	}

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(expansion.ParaphrasePrompt(text, n)), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %v: %w", err, domain.ErrExpansionProviderError)
	}

	output := responseText(resp)
	if output == "" {
		return nil, fmt.Errorf("gemini api returned empty response: %w", domain.ErrExpansionProviderError)
	}

	out := expansion.ParseParaphrases(output, n)
	p.logger.Debug("Paraphrases generated",
		zap.String("model", p.model),
		zap.Int("requested", n),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
