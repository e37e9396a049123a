package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mjsalimin/postyar/internal/resilience"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	result, err := resilience.Retry(context.Background(), resilience.RetryConfig{
		Attempts: 3,
		Delay:    time.Millisecond,
	}, nil, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" || attempts != 3 {
		t.Errorf("result = %q after %d attempts, want ok after 3", result, attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	_, err := resilience.Retry(context.Background(), resilience.RetryConfig{
		Attempts: 4,
		Delay:    time.Millisecond,
	}, nil, func() (int, error) {
		attempts++
		return 0, errors.New("always failing")
	})
	if !errors.Is(err, resilience.ErrExhaustedRetries) {
		t.Errorf("expected ErrExhaustedRetries, got %v", err)
	}
	if attempts != 4 {
		t.Errorf("expected exactly 4 attempts, got %d", attempts)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	permanent := errors.New("permanent")
	attempts := 0
	_, err := resilience.Retry(context.Background(), resilience.RetryConfig{
		Attempts:  5,
		Delay:     time.Millisecond,
		Retryable: func(err error) bool { return !errors.Is(err, permanent) },
	}, nil, func() (int, error) {
		attempts++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("expected the permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := resilience.Retry(ctx, resilience.RetryConfig{
		Attempts: 3,
		Delay:    time.Minute,
	}, nil, func() (int, error) {
		return 0, errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:        "test",
		MaxFailures: 2,
		OpenTimeout: time.Minute,
	}, nil)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		if _, err := breaker.Execute(func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: expected boom, got %v", i, err)
		}
	}

	_, err := breaker.Execute(func() (any, error) { return nil, nil })
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}
