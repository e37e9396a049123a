package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mjsalimin/postyar/internal/database"
)

// NewSettingsHandler returns a handler for the /settings command.
func NewSettingsHandler(deps HandlerDeps) bot.HandlerFunc {
	return settingsHandler{deps}.Handle
}

type settingsHandler struct {
	deps HandlerDeps
}

func (h settingsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "settings")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /settings command", "chat_id", chatID, "user_id", userID)

	settings, err := h.deps.Store.GetSettings(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load settings", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Bot.Messages.GeneralError,
		})
		return
	}

	autoSave := settings[database.SettingAutoSave] == "true"

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "⚙️ تنظیمات شما:",
		ReplyMarkup: settingsKeyboard(autoSave),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send settings message", "error", err, "chat_id", chatID)
	}
}
