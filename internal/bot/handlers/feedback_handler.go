package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mjsalimin/postyar/internal/database"
	"github.com/mjsalimin/postyar/internal/text"
)

// NewFeedbackHandler returns a handler for the /feedback command. The
// comment follows the command on the same line: /feedback متن شما
func NewFeedbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return feedbackHandler{deps}.Handle
}

type feedbackHandler struct {
	deps HandlerDeps
}

func (h feedbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "feedback")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /feedback command", "chat_id", chatID, "user_id", userID)

	comment := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/feedback"))
	if comment == "" {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "💬 لطفا بازخورد خود را بعد از دستور بنویسید:\n/feedback نظر شما",
		})
		return
	}

	err := h.deps.Store.SaveFeedback(ctx, &database.Feedback{
		UserID:  userID,
		Comment: text.Truncate(comment, 1000),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to save feedback", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Bot.Messages.GeneralError,
		})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   h.deps.Config.Bot.Messages.FeedbackThanks,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send feedback confirmation", "error", err, "chat_id", chatID)
	}
}
