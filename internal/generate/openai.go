package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mjsalimin/postyar/internal/config"
	"github.com/mjsalimin/postyar/internal/resilience"
	"github.com/mjsalimin/postyar/internal/text"
)

// openAIClient talks to an OpenAI-compatible chat-completions endpoint
// over plain HTTP with a bearer token.
type openAIClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	breaker    *resilience.Breaker

	baseURL          string
	apiToken         string
	model            string
	temperature      float32
	maxTokens        int
	maxResearchChars int
	retry            resilience.RetryConfig
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func newOpenAIClient(cfg config.AIConfig, logger *slog.Logger) (*openAIClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("completion API token is required")
	}

	return &openAIClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "openai_client"),
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			Name:        "completion_api",
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		}, logger),
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		apiToken:         cfg.Token,
		model:            cfg.Model,
		temperature:      cfg.Temperature,
		maxTokens:        cfg.MaxTokens,
		maxResearchChars: cfg.MaxResearchChars,
		retry: resilience.RetryConfig{
			Attempts: cfg.RetryAttempts,
			Delay:    cfg.RetryDelay,
			Retryable: func(err error) bool {
				return errors.Is(err, ErrRetryable)
			},
		},
	}, nil
}

// GeneratePosts implements Client. The research text is truncated to
// the configured character budget before being sent; each attempt goes
// through the circuit breaker, and the whole call is retried with a
// fixed delay on retryable failures.
func (c *openAIClient) GeneratePosts(ctx context.Context, topic, research string) ([]string, error) {
	research = text.Truncate(research, c.maxResearchChars)

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptFormat, topic, research)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        1,
	}

	content, err := resilience.Retry(ctx, c.retry, c.logger, func() (string, error) {
		result, execErr := c.breaker.Execute(func() (any, error) {
			return c.requestCompletion(ctx, payload)
		})
		if execErr != nil {
			return "", execErr
		}
		return result.(string), nil
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Completion API call failed after retries", "topic", topic, "error", err)
		return nil, err
	}

	posts := SplitPosts(content)
	if len(posts) == 0 {
		// SplitPosts guarantees at least one post for non-empty content;
		// an empty content string was already classified retryable.
		return nil, retryableErr("completion produced no usable posts")
	}

	c.logger.InfoContext(ctx, "Generated posts", "topic", topic, "count", len(posts))
	return posts, nil
}

// requestCompletion performs one HTTP round trip and classifies every
// failure mode. Auth errors, server errors, undecodable bodies, and
// empty content all share the retryable classification.
func (c *openAIClient) requestCompletion(ctx context.Context, payload chatCompletionRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", retryableErr("network error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", retryableErr("failed to read response body: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return "", retryableErr("authentication rejected (%d)", resp.StatusCode)
	case resp.StatusCode >= 500:
		return "", retryableErr("server error (%d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", retryableErr("unexpected status %d", resp.StatusCode)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", retryableErr("undecodable response body: %v", err)
	}
	if parsed.Error != nil {
		return "", retryableErr("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", retryableErr("response contained no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", retryableErr("response content is empty")
	}
	return content, nil
}
