package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/mjsalimin/postyar/internal/config"
	"github.com/mjsalimin/postyar/internal/resilience"
	"github.com/mjsalimin/postyar/internal/text"
)

// geminiClient is the alternative generation backend on the Gemini API.
// It honors the same contract and splitting behavior as the OpenAI
// backend.
type geminiClient struct {
	genaiClient      *genai.Client
	logger           *slog.Logger
	contentConfig    *genai.GenerateContentConfig
	model            string
	maxResearchChars int
	retry            resilience.RetryConfig
}

func newGeminiClient(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (*geminiClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}

	return &geminiClient{
		genaiClient:      gi,
		logger:           logger.With("component", "gemini_client"),
		contentConfig:    contentConfig,
		model:            cfg.Model,
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

// GeneratePosts implements Client.
func (c *geminiClient) GeneratePosts(ctx context.Context, topic, research string) ([]string, error) {
	research = text.Truncate(research, c.maxResearchChars)
	prompt := fmt.Sprintf(userPromptFormat, topic, research)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	content, err := resilience.Retry(ctx, c.retry, c.logger, func() (string, error) {
		resp, callErr := c.genaiClient.Models.GenerateContent(ctx, c.model, contents, c.contentConfig)
		if callErr != nil {
			var apiErr *genai.APIError
			if errors.As(callErr, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
				return "", retryableErr("gemini server error (%d)", apiErr.Code)
			}
			return "", fmt.Errorf("gemini API call failed: %w", callErr)
		}
		return c.extractText(resp)
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini generation failed after retries", "topic", topic, "error", err)
		return nil, err
	}

	posts := SplitPosts(content)
	if len(posts) == 0 {
		return nil, retryableErr("gemini produced no usable posts")
	}

	c.logger.InfoContext(ctx, "Generated posts", "topic", topic, "count", len(posts))
	return posts, nil
}

func (c *geminiClient) extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := resp.PromptFeedback.BlockReasonMessage
		if reason == "" {
			reason = fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini request blocked by safety filter: %s", reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", retryableErr("gemini response missing candidates or content")
	}

	var sb []byte
	for _, part := range resp.Candidates[0].Content.Parts {
		sb = append(sb, part.Text...)
	}
	if len(sb) == 0 {
		return "", retryableErr("gemini response contained no text")
	}
	return string(sb), nil
}
