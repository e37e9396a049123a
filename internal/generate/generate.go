// Package generate turns a topic plus research text into 1-2 Persian
// educational posts via a hosted chat-completion API, with marker-based
// splitting and a deterministic local fallback.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mjsalimin/postyar/internal/config"
)

// ErrRetryable classifies completion-API failures that the fixed-delay
// retry loop may re-attempt: non-200 statuses, undecodable bodies, and
// responses with empty or missing content.
var ErrRetryable = errors.New("retryable completion error")

// retryableErr wraps an error condition as retryable.
func retryableErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRetryable, fmt.Sprintf(format, args...))
}

// Client generates posts for a topic from research text.
type Client interface {
	// GeneratePosts returns 1-2 non-empty post strings. Errors are
	// surfaced only after the configured retries are exhausted.
	GeneratePosts(ctx context.Context, topic, research string) ([]string, error)
}

// NewClient selects a generation backend based on configuration.
func NewClient(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Initializing generation client", "backend", cfg.Backend, "model", cfg.Model)

	switch cfg.Backend {
	case "openai":
		return newOpenAIClient(cfg, logger)
	case "gemini":
		return newGeminiClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown generation backend: %s", cfg.Backend)
	}
}
