package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/domain"
	"github.com/ayo-labs/copilot/internal/metrics"
)

// Completer is the chat-completion provider used by the explanation generator.
// Single-turn, non-streaming.
type Completer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// CompleterConfig holds the chat-completion provider settings.
type CompleterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat-completion provider. A
// positive Timeout bounds every API call.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		logger:      cfg.Logger,
	}
}

// Complete sends one user prompt and returns the raw completion text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError("chat completion", err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty chat completion response: %w", domain.ErrProvider)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}
