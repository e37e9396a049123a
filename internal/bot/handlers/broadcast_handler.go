package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBroadcastHandler returns a handler for the admin-only /broadcast
// command. The message is queued per user and delivered by the
// notification dispatch task, so a large user base never blocks the
// handler.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

type broadcastHandler struct {
	deps HandlerDeps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "broadcast")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /broadcast command", "chat_id", chatID, "user_id", update.Message.From.ID)

	message := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/broadcast"))
	if message == "" {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📣 متن اطلاعیه را بعد از دستور بنویسید:\n/broadcast متن شما",
		})
		return
	}

	queued, err := h.deps.Store.CreateBroadcast(ctx, message)
	if err != nil {
		log.ErrorContext(ctx, "Failed to queue broadcast", "error", err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Bot.Messages.GeneralError,
		})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("📣 اطلاعیه برای %d کاربر در صف ارسال قرار گرفت.", queued),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send broadcast confirmation", "error", err, "chat_id", chatID)
	}
}
