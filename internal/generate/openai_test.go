package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mjsalimin/postyar/internal/config"
	"github.com/mjsalimin/postyar/internal/resilience"
)

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		Backend:            "openai",
		Token:              "test-token",
		BaseURL:            baseURL,
		Model:              "gpt-4o",
		Temperature:        0.7,
		MaxTokens:          1500,
		Timeout:            5 * time.Second,
		MaxResearchChars:   3000,
		RetryAttempts:      3,
		RetryDelay:         time.Millisecond,
		BreakerMaxFailures: 20,
		BreakerOpenTimeout: time.Minute,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func completionBody(t *testing.T, content string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal completion body: %v", err)
	}
	return body
}

func TestGeneratePostsSplitsMarkerResponse(t *testing.T) {
	t.Parallel()

	reply := PostOneMarker + "\n" + sampleIntroPost + "\n\n" + PostTwoMarker + "\n" + samplePracticalPost

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "هوش مصنوعی") {
			t.Errorf("user prompt missing topic: %q", req.Messages[1].Content)
		}

		_, _ = w.Write(completionBody(t, reply))
	}))
	defer server.Close()

	client, err := newOpenAIClient(testAIConfig(server.URL), discardLogger())
	if err != nil {
		t.Fatalf("newOpenAIClient: %v", err)
	}

	posts, err := client.GeneratePosts(context.Background(), "هوش مصنوعی", "نتایج جستجو:\n• یافته اول")
	if err != nil {
		t.Fatalf("GeneratePosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d: %q", len(posts), posts)
	}
	if posts[0] != sampleIntroPost || posts[1] != samplePracticalPost {
		t.Errorf("posts = %q", posts)
	}
}

func TestGeneratePostsRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := newOpenAIClient(testAIConfig(server.URL), discardLogger())
	if err != nil {
		t.Fatalf("newOpenAIClient: %v", err)
	}

	_, err = client.GeneratePosts(context.Background(), "بازاریابی", "")
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !errors.Is(err, ErrRetryable) {
		t.Errorf("error should be retryable, got %v", err)
	}
	if !errors.Is(err, resilience.ErrExhaustedRetries) {
		t.Errorf("error should mark exhausted retries, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestGeneratePostsRecoversAfterTransientFailure(t *testing.T) {
	t.Parallel()

	reply := PostOneMarker + "\n" + sampleIntroPost + "\n\n" + PostTwoMarker + "\n" + samplePracticalPost

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(completionBody(t, reply))
	}))
	defer server.Close()

	client, err := newOpenAIClient(testAIConfig(server.URL), discardLogger())
	if err != nil {
		t.Fatalf("newOpenAIClient: %v", err)
	}

	posts, err := client.GeneratePosts(context.Background(), "مدیریت", "")
	if err != nil {
		t.Fatalf("GeneratePosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestGeneratePostsTreatsAuthFailureAsRetryable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := newOpenAIClient(testAIConfig(server.URL), discardLogger())
	if err != nil {
		t.Fatalf("newOpenAIClient: %v", err)
	}

	_, err = client.GeneratePosts(context.Background(), "رهبری", "")
	if !errors.Is(err, ErrRetryable) {
		t.Fatalf("auth failure should classify retryable, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestNewOpenAIClientRequiresToken(t *testing.T) {
	t.Parallel()

	cfg := testAIConfig("http://localhost")
	cfg.Token = ""
	if _, err := newOpenAIClient(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for missing token")
	}
}
