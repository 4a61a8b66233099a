// Package openai implements domain.Narrator over any OpenAI-compatible chat API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/metrics"
)

// Narrator is a chat completion client (OpenAI, Ollama, vLLM, Nebius...).
type Narrator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	user        string
	provider    string
	logger      *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	User        string
	Provider    string
	Logger      *zap.Logger
}

var _ domain.Narrator = (*Narrator)(nil)

// NewNarrator creates an OpenAI-compatible chat client.
func NewNarrator(cfg *Config) *Narrator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Narrator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		user:        cfg.User,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Complete implements domain.Narrator and records transport-level metrics.
func (n *Narrator) Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: p.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: p.User,
	})

	req := openai.ChatCompletionRequest{
		Model:       n.model,
		Messages:    messages,
		Temperature: n.temperature,
		User:        n.user,
	}
	if n.maxTokens > 0 {
		req.MaxTokens = n.maxTokens
	}

	start := time.Now()
	resp, err := n.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(n.provider, n.model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(n.provider, n.model, "api_error").Inc()
		return domain.Completion{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.LLMRequestsTotal.WithLabelValues(n.provider, n.model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(n.provider, n.model, "empty_response").Inc()
		return domain.Completion{}, fmt.Errorf("empty chat completion: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(n.provider, n.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(n.provider, n.model).Observe(duration.Seconds())

	usage := resp.Usage
	if usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(n.provider, n.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(n.provider, n.model, "completion").Add(float64(usage.CompletionTokens))
	}

	if reason := resp.Choices[0].FinishReason; reason == openai.FinishReasonLength {
		n.logger.Warn("Chat completion truncated", zap.String("model", n.model), zap.Int("max_tokens", n.maxTokens))
	}

	return domain.Completion{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (n *Narrator) HealthCheck(ctx context.Context) error {
	if _, err := n.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// Every error wraps domain.ErrLLMProviderError so handlers map it to 502.
func parseAPIError(err error) error {
	wrap := domain.ErrLLMProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat request: %w: %w", err, wrap)
	}
	return fmt.Errorf("chat request failed: %w", wrap)
}

// extractDetail reads the "detail" field some OpenAI-compatible servers use for errors.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
