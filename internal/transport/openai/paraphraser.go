package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/expansion"
)

const defaultChatModel = openai.GPT4oMini

// Paraphraser produces query rewrites with a chat completion model.
type Paraphraser struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// ParaphraserConfig holds the chat provider settings.
type ParaphraserConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// NewParaphraser creates an OpenAI-compatible paraphrase provider.
func NewParaphraser(cfg *ParaphraserConfig) *Paraphraser {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultChatModel
	}

	return &Paraphraser{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Paraphrase implements domain.Paraphraser.
func (p *Paraphraser) Paraphrase(ctx context.Context, text string, n int) ([]string, error) {
	if n < 1 {
		return nil, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text: %w", domain.ErrInvalidInput)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: expansion.ParaphrasePrompt(text, n)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %v: %w", err, domain.ErrExpansionProviderError)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty chat response: %w", domain.ErrExpansionProviderError)
	}

	out := expansion.ParseParaphrases(resp.Choices[0].Message.Content, n)
	p.logger.Debug("Paraphrases generated",
		zap.String("model", p.model),
		zap.Int("requested", n),
		zap.Int("returned", len(out)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return out, nil
}
