package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/mjsalimin/postyar/internal/config"
	"github.com/mjsalimin/postyar/internal/database"
	"github.com/mjsalimin/postyar/internal/generate"
	"github.com/mjsalimin/postyar/internal/research"
	"github.com/mjsalimin/postyar/internal/session"
)

type fakeResearcher struct {
	calls  int
	bundle *research.Bundle
}

func (f *fakeResearcher) Research(_ context.Context, _ string) *research.Bundle {
	f.calls++
	if f.bundle != nil {
		return f.bundle
	}
	return &research.Bundle{Text: "نتایج جستجو:\n• یافته"}
}

type fakeGenerator struct {
	calls int
	posts []string
	err   error
}

func (f *fakeGenerator) GeneratePosts(_ context.Context, _, _ string) ([]string, error) {
	f.calls++
	return f.posts, f.err
}

// fakeStore implements database.Store with in-memory quota bookkeeping.
type fakeStore struct {
	database.Store

	quotaUsed int
	quotaDate string
	requests  []*database.Request
	searches  []*database.SearchQuery
	saved     []*database.SavedContent
	settings  map[string]string
	users     map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: map[string]string{}, users: map[int64]bool{}}
}

func (f *fakeStore) UpsertUser(_ context.Context, user *database.User) error {
	f.users[user.ID] = true
	return nil
}

func (f *fakeStore) CheckAndIncrementQuota(_ context.Context, _ int64, max int, today string) (int, error) {
	if f.quotaDate != today {
		f.quotaDate = today
		f.quotaUsed = 0
	}
	if f.quotaUsed >= max {
		return 0, database.ErrQuotaExceeded
	}
	f.quotaUsed++
	return max - f.quotaUsed, nil
}

func (f *fakeStore) LogRequest(_ context.Context, r *database.Request) error {
	f.requests = append(f.requests, r)
	return nil
}

func (f *fakeStore) LogSearch(_ context.Context, q *database.SearchQuery) error {
	f.searches = append(f.searches, q)
	return nil
}

func (f *fakeStore) SaveContent(_ context.Context, c *database.SavedContent) error {
	f.saved = append(f.saved, c)
	return nil
}

func (f *fakeStore) GetSettings(_ context.Context, _ int64) (map[string]string, error) {
	return f.settings, nil
}

type recorder struct {
	messages []string
}

func (r *recorder) send(_ context.Context, body string, _ models.ReplyMarkup) error {
	r.messages = append(r.messages, body)
	return nil
}

func newTestHandler(store *fakeStore, researcher *fakeResearcher, gen *fakeGenerator) topicHandler {
	cfg := &config.Config{}
	cfg.Bot.DailyQuota = 2
	cfg.Bot.MinTopicLength = 3
	cfg.Bot.Messages = config.DefaultMessages

	return topicHandler{deps: HandlerDeps{
		Logger:     slog.New(slog.DiscardHandler),
		Config:     cfg,
		Store:      store,
		Generator:  gen,
		Fallback:   generate.NewLocalGenerator(slog.New(slog.DiscardHandler)),
		Researcher: researcher,
		Sessions:   session.NewStore(),
	}}
}

func TestPipelineRejectsShortTopicBeforeResearch(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	researcher := &fakeResearcher{}
	gen := &fakeGenerator{posts: []string{"یک", "دو"}}
	h := newTestHandler(store, researcher, gen)

	rec := &recorder{}
	h.runPipeline(context.Background(), rec.send, 1, "ab", "")

	if researcher.calls != 0 {
		t.Errorf("research ran %d times for a short topic, want 0", researcher.calls)
	}
	if gen.calls != 0 {
		t.Errorf("generation ran %d times for a short topic, want 0", gen.calls)
	}
	if store.quotaUsed != 0 {
		t.Errorf("quota consumed for a rejected topic")
	}
	if len(rec.messages) != 1 || !strings.Contains(rec.messages[0], "3") {
		t.Errorf("rejection should state the minimum length, got %q", rec.messages)
	}
}

func TestPipelineQuotaRejectionStatesMaximum(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	researcher := &fakeResearcher{}
	gen := &fakeGenerator{posts: []string{"پست نخست", "پست دوم"}}
	h := newTestHandler(store, researcher, gen)

	today := database.QuotaDate(time.Now())
	store.quotaDate = today
	store.quotaUsed = 2 // quota already spent

	rec := &recorder{}
	h.runPipeline(context.Background(), rec.send, 1, "هوش مصنوعی", "")

	if researcher.calls != 0 || gen.calls != 0 {
		t.Errorf("no network work should happen past quota: research=%d generate=%d", researcher.calls, gen.calls)
	}
	if len(rec.messages) != 1 {
		t.Fatalf("expected exactly the rejection message, got %q", rec.messages)
	}
	want := fmt.Sprintf(config.DefaultMessages.QuotaExceeded, 2)
	if rec.messages[0] != want {
		t.Errorf("rejection = %q, want %q", rec.messages[0], want)
	}
}

func TestPipelineDeliversGeneratedPosts(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	researcher := &fakeResearcher{bundle: &research.Bundle{
		Text:    "نتایج جستجو:\n• یافته",
		Sources: []research.Source{{Title: "منبع", URL: "https://example.com"}},
	}}
	gen := &fakeGenerator{posts: []string{"پست آموزشی نخست", "پست آموزشی دوم"}}
	h := newTestHandler(store, researcher, gen)

	rec := &recorder{}
	h.runPipeline(context.Background(), rec.send, 1, "هوش مصنوعی", "")

	joined := strings.Join(rec.messages, "\n---\n")
	if !strings.Contains(joined, "پست آموزشی نخست") || !strings.Contains(joined, "پست آموزشی دوم") {
		t.Errorf("posts missing from delivery: %q", rec.messages)
	}
	if !strings.Contains(joined, "https://example.com") {
		t.Errorf("sources missing from delivery: %q", rec.messages)
	}

	if len(store.requests) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(store.requests))
	}
	if store.requests[0].Status != database.RequestStatusSuccess {
		t.Errorf("status = %q, want success", store.requests[0].Status)
	}
	if len(store.searches) != 1 || store.searches[0].ResultCount != 1 {
		t.Errorf("search history not recorded: %+v", store.searches)
	}
}

func TestPipelineFallsBackWhenGenerationFails(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	researcher := &fakeResearcher{}
	gen := &fakeGenerator{err: errors.New("boom")}
	h := newTestHandler(store, researcher, gen)

	rec := &recorder{}
	h.runPipeline(context.Background(), rec.send, 1, "بازاریابی", "")

	joined := strings.Join(rec.messages, "\n")
	if !strings.Contains(joined, config.DefaultMessages.FallbackNotice) {
		t.Errorf("fallback notice missing: %q", rec.messages)
	}
	if !strings.Contains(joined, "بازاریابی") {
		t.Errorf("fallback posts should mention the topic: %q", rec.messages)
	}
	if len(store.requests) != 1 || store.requests[0].Status != database.RequestStatusFallback {
		t.Errorf("request log should record fallback: %+v", store.requests)
	}
}

func TestPipelineAutoSavesWhenEnabled(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.settings[database.SettingAutoSave] = "true"
	gen := &fakeGenerator{posts: []string{"پست نخست", "پست دوم"}}
	h := newTestHandler(store, &fakeResearcher{}, gen)

	rec := &recorder{}
	h.runPipeline(context.Background(), rec.send, 1, "مدیریت", "")

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 auto-saved item, got %d", len(store.saved))
	}
	if store.saved[0].Topic != "مدیریت" {
		t.Errorf("saved topic = %q", store.saved[0].Topic)
	}
}
