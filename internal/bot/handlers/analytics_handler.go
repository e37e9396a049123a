package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewAnalyticsHandler returns a handler for the /analytics command. It
// reports the user's aggregated request history.
func NewAnalyticsHandler(deps HandlerDeps) bot.HandlerFunc {
	return analyticsHandler{deps}.Handle
}

type analyticsHandler struct {
	deps HandlerDeps
}

func (h analyticsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "analytics")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /analytics command", "chat_id", chatID, "user_id", userID)

	stats, err := h.deps.Store.GetUserStats(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to aggregate user stats", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Bot.Messages.GeneralError,
		})
		return
	}

	body := fmt.Sprintf(`📊 آمار شما:

📝 کل درخواست‌ها: %d
✅ موفق: %d
⚠️ با قالب محلی: %d
💾 محتوای ذخیره‌شده: %d`,
		stats.TotalRequests, stats.SuccessRequests, stats.FallbackRequests, stats.SavedCount)

	if stats.TopTopic != "" {
		body += fmt.Sprintf("\n🔝 پرتکرارترین موضوع: %s", stats.TopTopic)
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: body})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send analytics message", "error", err, "chat_id", chatID)
	}
}
