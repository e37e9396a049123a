// Package resilience provides the retry and circuit-breaker wrappers
// used around the completion API: a fixed-delay retry helper and a
// gobreaker-backed breaker.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrCircuitOpen indicates the circuit breaker is open.
	ErrCircuitOpen = gobreaker.ErrOpenState
	// ErrExhaustedRetries indicates retry attempts were exhausted.
	ErrExhaustedRetries = errors.New("retry attempts exhausted")
)

// RetryConfig controls the fixed-delay retry loop. The delay does not
// grow between attempts.
type RetryConfig struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(error) bool
}

// Retry runs op up to cfg.Attempts times, sleeping cfg.Delay between
// attempts. A nil Retryable treats every error as retryable.
// Non-retryable errors are returned immediately; once attempts run out
// the last error is returned joined with ErrExhaustedRetries.
func Retry[T any](ctx context.Context, cfg RetryConfig, logger *slog.Logger, op func() (T, error)) (T, error) {
	var zero T
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return zero, err
		}
		if attempt == cfg.Attempts {
			break
		}

		logger.WarnContext(ctx, "Operation failed, retrying after fixed delay",
			"attempt", attempt, "max_attempts", cfg.Attempts, "delay", cfg.Delay, "error", err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}

	return zero, errors.Join(ErrExhaustedRetries, lastErr)
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Name        string
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Breaker wraps gobreaker with logging on state changes.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a breaker that trips after MaxFailures consecutive
// failures and half-opens after OpenTimeout.
func NewBreaker(cfg BreakerConfig, logger *slog.Logger) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "circuit_breaker", "name", cfg.Name)

	settings := gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("Circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs op through the breaker.
func (b *Breaker) Execute(op func() (any, error)) (any, error) {
	return b.cb.Execute(op)
}
