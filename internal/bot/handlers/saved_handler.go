package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mjsalimin/postyar/internal/text"
)

// savedListLimit bounds how many items /saved shows at once.
const savedListLimit = 5

// NewSavedHandler returns a handler for the /saved command. It lists
// the user's saved content, newest first, each with a favorite toggle.
func NewSavedHandler(deps HandlerDeps) bot.HandlerFunc {
	return savedHandler{deps}.Handle
}

type savedHandler struct {
	deps HandlerDeps
}

func (h savedHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "saved")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /saved command", "chat_id", chatID, "user_id", userID)

	items, err := h.deps.Store.ListSavedContent(ctx, userID, savedListLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list saved content", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Bot.Messages.GeneralError,
		})
		return
	}

	if len(items) == 0 {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Bot.Messages.NoSavedContent,
		})
		return
	}

	for _, item := range items {
		star := ""
		if item.Favorite {
			star = "⭐️ "
		}
		body := fmt.Sprintf("%s📌 %s\n\n%s", star, item.Topic, text.Truncate(item.Content, 500))

		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        body,
			ReplyMarkup: savedItemKeyboard(item.ID, item.Favorite),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send saved item", "error", err, "content_id", item.ID)
		}
	}
}
