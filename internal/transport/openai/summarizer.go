package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/domain"
	"github.com/cinewise/moviedex/internal/metrics"
)

// summaryPrompt is the fixed template sent for every request; the raw
// metadata payload is embedded verbatim.
const summaryPrompt = "You are a movie assistant. Write a short, spoiler-free summary of the movie %q based on this metadata:\n\n%s"

// Summarizer generates movie summaries via an OpenAI-compatible chat
// completion API. Calls are synchronous; there are no retries and no
// caching, every request hits the provider.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// Config holds the summary provider settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// NewSummarizer creates an OpenAI-compatible summary provider.
func NewSummarizer(cfg *Config) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}
}

// Summarize requests one summary for the given movie payload. Provider
// errors wrap domain.ErrSummaryProviderError; an empty completion is
// returned as an empty string with nil error, emptiness policy is the
// caller's concern.
func (s *Summarizer) Summarize(ctx context.Context, title string, payload []byte) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(summaryPrompt, title, payload),
			},
		},
	}
	if s.maxTokens > 0 {
		req.MaxTokens = s.maxTokens
	}

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SummaryRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return "", parseAPIError(err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	if strings.TrimSpace(text) == "" {
		metrics.SummaryRequestsTotal.WithLabelValues(s.model, "empty").Inc()
		s.logger.Debug("summary provider returned empty completion", zap.String("title", title))
		return text, nil
	}

	metrics.SummaryRequestsTotal.WithLabelValues(s.model, "success").Inc()
	metrics.SummaryRequestDuration.WithLabelValues(s.model).Observe(duration.Seconds())

	return text, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Summarizer) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrSummaryProviderError for the
// caller's fallback handling.
func parseAPIError(err error) error {
	wrap := domain.ErrSummaryProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("summary API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("summary API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("summary API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("summary request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body, used by
// some OpenAI-compatible providers instead of the standard error envelope.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
