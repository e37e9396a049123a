package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mjsalimin/postyar/internal/database"
	"github.com/mjsalimin/postyar/internal/text"
)

const remindUsage = `⏰ قالب دستور:
/remind 2h مرور پست‌های امروز

واحدهای زمان: m (دقیقه)، h (ساعت)`

// maxReminderDelay bounds how far in the future a reminder may land.
const maxReminderDelay = 30 * 24 * time.Hour

// NewRemindHandler returns a handler for the /remind command. The delay
// and message follow the command: /remind <duration> <message>.
func NewRemindHandler(deps HandlerDeps) bot.HandlerFunc {
	return remindHandler{deps}.Handle
}

type remindHandler struct {
	deps HandlerDeps
}

func (h remindHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "remind")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /remind command", "chat_id", chatID, "user_id", userID)

	delay, message, err := parseRemindArgs(update.Message.Text)
	if err != nil {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: remindUsage})
		return
	}

	reminder := &database.Reminder{
		UserID:   userID,
		Message:  text.Truncate(message, 500),
		RemindAt: time.Now().UTC().Add(delay),
	}
	if err := h.deps.Store.CreateReminder(ctx, reminder); err != nil {
		log.ErrorContext(ctx, "Failed to create reminder", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Bot.Messages.GeneralError,
		})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ یادآوری برای %s بعد تنظیم شد.", formatDelay(delay)),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reminder confirmation", "error", err, "chat_id", chatID)
	}
}

// parseRemindArgs splits "/remind <duration> <message>" into its parts.
func parseRemindArgs(raw string) (time.Duration, string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(raw, "/remind"))
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) < 2 {
		return 0, "", fmt.Errorf("missing duration or message")
	}

	delay, err := time.ParseDuration(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid duration %q: %w", fields[0], err)
	}
	if delay < time.Minute || delay > maxReminderDelay {
		return 0, "", fmt.Errorf("duration out of range: %s", delay)
	}

	message := strings.TrimSpace(fields[1])
	if message == "" {
		return 0, "", fmt.Errorf("empty reminder message")
	}

	return delay, message, nil
}

func formatDelay(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%d دقیقه", int(d.Minutes()))
	}
	return fmt.Sprintf("%d ساعت", int(d.Hours()))
}
