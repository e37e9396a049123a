package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mjsalimin/postyar/internal/database"
	"github.com/mjsalimin/postyar/internal/research"
	"github.com/mjsalimin/postyar/internal/session"
	"github.com/mjsalimin/postyar/internal/text"
)

// sendFunc abstracts message delivery so the pipeline can run without a
// live Telegram connection in tests.
type sendFunc func(ctx context.Context, body string, markup models.ReplyMarkup) error

// NewTopicHandler returns the catch-all text handler. When the user's
// session awaits a topic it runs the full research-and-generate
// pipeline; otherwise it re-offers the main menu.
func NewTopicHandler(deps HandlerDeps) bot.HandlerFunc {
	h := topicHandler{deps}
	return h.Handle
}

type topicHandler struct {
	deps HandlerDeps
}

func (h topicHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "topic")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	send := func(ctx context.Context, body string, markup models.ReplyMarkup) error {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: body, ReplyMarkup: markup})
		return err
	}

	state := h.deps.Sessions.Consume(userID)
	if state.Kind != session.AwaitingTopic {
		log.DebugContext(ctx, "Idle message, offering menu", "user_id", userID)
		if err := send(ctx, h.deps.Config.Bot.Messages.AskTopic, mainMenuKeyboard()); err != nil {
			log.ErrorContext(ctx, "Failed to send menu", "error", err, "chat_id", chatID)
		}
		return
	}

	// A registered user row must exist before the quota counter can
	// move; covers users who message without /start after a wipe.
	err := h.deps.Store.UpsertUser(ctx, &database.User{
		ID:        userID,
		Username:  msg.From.Username,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to upsert user before pipeline", "error", err, "user_id", userID)
	}

	h.runPipeline(ctx, send, userID, msg.Text, state.Category)
}

// runPipeline validates the topic, consumes quota, researches,
// generates, and delivers. The user always receives something: remote
// generation failures degrade to the local template generator, and a
// panic anywhere degrades to the generic error message.
func (h topicHandler) runPipeline(ctx context.Context, send sendFunc, userID int64, rawTopic, category string) {
	log := h.deps.Logger.With("handler", "topic", "user_id", userID)
	messages := h.deps.Config.Bot.Messages

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "Pipeline panicked", "panic", r)
			_ = send(ctx, messages.GeneralError, nil)
		}
	}()

	topic := text.Normalize(rawTopic)
	if utf8.RuneCountInString(topic) < h.deps.Config.Bot.MinTopicLength {
		_ = send(ctx, fmt.Sprintf(messages.TopicTooShort, h.deps.Config.Bot.MinTopicLength), nil)
		return
	}

	quota := h.deps.Config.Bot.DailyQuota
	_, err := h.deps.Store.CheckAndIncrementQuota(ctx, userID, quota, database.QuotaDate(time.Now()))
	if errors.Is(err, database.ErrQuotaExceeded) {
		_ = send(ctx, fmt.Sprintf(messages.QuotaExceeded, quota), nil)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Quota check failed", "error", err)
		_ = send(ctx, messages.GeneralError, nil)
		return
	}

	start := time.Now()

	_ = send(ctx, messages.Researching, nil)
	bundle := h.deps.Researcher.Research(ctx, topic)

	if err := h.deps.Store.LogSearch(ctx, &database.SearchQuery{
		UserID:      userID,
		Query:       topic,
		ResultCount: len(bundle.Sources),
	}); err != nil {
		log.WarnContext(ctx, "Failed to log search history", "error", err)
	}

	_ = send(ctx, messages.Generating, nil)

	status := database.RequestStatusSuccess
	posts, err := h.deps.Generator.GeneratePosts(ctx, topic, bundle.Text)
	if err != nil {
		log.WarnContext(ctx, "Remote generation failed, using local fallback", "error", err, "topic", topic)
		fallback := h.deps.Fallback.Generate(topic, bundle.Text, category)
		posts = fallback[:]
		status = database.RequestStatusFallback
		_ = send(ctx, messages.FallbackNotice, nil)
	}

	h.deliverPosts(ctx, send, posts, bundle.Sources)

	if err := h.deps.Store.LogRequest(ctx, &database.Request{
		UserID:     userID,
		Topic:      topic,
		Status:     status,
		PostCount:  len(posts),
		DurationMS: time.Since(start).Milliseconds(),
	}); err != nil {
		log.WarnContext(ctx, "Failed to log request", "error", err)
	}

	h.autoSave(ctx, userID, topic, posts)

	_ = send(ctx, messages.Done, mainMenuKeyboard())
	log.InfoContext(ctx, "Pipeline finished", "topic", topic, "status", status, "duration", time.Since(start))
}

// deliverPosts chunks each post to the Telegram limit and appends the
// source list to the last chunk of the last post.
func (h topicHandler) deliverPosts(ctx context.Context, send sendFunc, posts []string, sources []research.Source) {
	log := h.deps.Logger.With("handler", "topic")

	sourceBlock := formatSources(sources, h.deps.Config.Bot.Messages.SourcesHeader)

	for i, post := range posts {
		if i == len(posts)-1 && sourceBlock != "" {
			post += sourceBlock
		}
		for _, chunk := range text.SplitMessage(post, text.MaxMessageLength) {
			if err := send(ctx, chunk, nil); err != nil {
				log.ErrorContext(ctx, "Failed to deliver post chunk", "error", err)
			}
		}
	}
}

func (h topicHandler) autoSave(ctx context.Context, userID int64, topic string, posts []string) {
	log := h.deps.Logger.With("handler", "topic", "user_id", userID)

	settings, err := h.deps.Store.GetSettings(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "Failed to load settings for auto-save", "error", err)
		return
	}
	if settings[database.SettingAutoSave] != "true" {
		return
	}

	err = h.deps.Store.SaveContent(ctx, &database.SavedContent{
		UserID:  userID,
		Topic:   topic,
		Content: strings.Join(posts, "\n\n"),
	})
	if err != nil {
		log.WarnContext(ctx, "Auto-save failed", "error", err)
	}
}

// formatSources renders the attributed links under a header, or an
// empty string when there is nothing to attribute.
func formatSources(sources []research.Source, header string) string {
	if len(sources) == 0 {
		return ""
	}

	lines := []string{"", "", header}
	for _, s := range sources {
		if s.URL == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("🔗 %s: %s", s.Title, s.URL))
	}
	if len(lines) == 3 {
		return ""
	}
	return strings.Join(lines, "\n")
}
