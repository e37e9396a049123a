package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mjsalimin/postyar/internal/database"
	"github.com/mjsalimin/postyar/internal/session"
)

// NewCallbackHandler returns the handler for all inline keyboard
// callback queries.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	query := update.CallbackQuery
	if query == nil {
		return
	}

	userID := query.From.ID
	data := query.Data

	var chatID int64
	if query.Message.Message.Date != 0 {
		chatID = query.Message.Message.Chat.ID
	} else {
		chatID = query.Message.InaccessibleMessage.Chat.ID
	}

	log.InfoContext(ctx, "Handling callback query", "user_id", userID, "data", data)

	// Telegram shows a spinner on the button until the query is answered.
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: query.ID})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}

	send := func(text string, markup models.ReplyMarkup) {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: markup})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send callback reply", "error", err, "chat_id", chatID)
		}
	}

	messages := h.deps.Config.Bot.Messages

	switch {
	case data == CallbackNew || strings.HasPrefix(data, CallbackNewPrefix):
		category := strings.TrimPrefix(strings.TrimPrefix(data, CallbackNew), ":")
		h.deps.Sessions.Set(userID, session.State{Kind: session.AwaitingTopic, Category: category})
		send(messages.AskTopic, nil)

	case data == CallbackHelp:
		send(messages.Help, nil)

	case data == CallbackAdvanced:
		send(messages.AdvancedTips, nil)

	case data == CallbackCancel:
		h.deps.Sessions.Clear(userID)
		send(messages.Cancelled, mainMenuKeyboard())

	case data == CallbackAutoSave:
		h.toggleAutoSave(ctx, userID, send)

	case strings.HasPrefix(data, CallbackFavPrefix):
		h.toggleFavorite(ctx, userID, strings.TrimPrefix(data, CallbackFavPrefix), send)

	default:
		log.WarnContext(ctx, "Unknown callback data", "data", data, "user_id", userID)
	}
}

func (h callbackHandler) toggleAutoSave(ctx context.Context, userID int64, send func(string, models.ReplyMarkup)) {
	log := h.deps.Logger.With("handler", "callback")

	settings, err := h.deps.Store.GetSettings(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load settings for toggle", "error", err, "user_id", userID)
		send(h.deps.Config.Bot.Messages.GeneralError, nil)
		return
	}

	newValue := "true"
	if settings[database.SettingAutoSave] == "true" {
		newValue = "false"
	}
	if err := h.deps.Store.UpsertSetting(ctx, userID, database.SettingAutoSave, newValue); err != nil {
		log.ErrorContext(ctx, "Failed to toggle auto-save", "error", err, "user_id", userID)
		send(h.deps.Config.Bot.Messages.GeneralError, nil)
		return
	}

	send("⚙️ تنظیمات به‌روز شد:", settingsKeyboard(newValue == "true"))
}

func (h callbackHandler) toggleFavorite(ctx context.Context, userID int64, rawID string, send func(string, models.ReplyMarkup)) {
	log := h.deps.Logger.With("handler", "callback")

	contentID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		log.WarnContext(ctx, "Malformed favorite callback ID", "raw_id", rawID, "user_id", userID)
		return
	}

	favorite, err := h.deps.Store.ToggleFavorite(ctx, userID, uint(contentID))
	if err != nil {
		log.ErrorContext(ctx, "Failed to toggle favorite", "error", err, "user_id", userID, "content_id", contentID)
		send(h.deps.Config.Bot.Messages.GeneralError, nil)
		return
	}

	if favorite {
		send("⭐️ به علاقه‌مندی‌ها اضافه شد.", nil)
	} else {
		send("💫 از علاقه‌مندی‌ها حذف شد.", nil)
	}
}
