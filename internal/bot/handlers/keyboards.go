package handlers

import (
	"strconv"

	"github.com/go-telegram/bot/models"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Callback data values understood by the callback query handler.
const (
	CallbackNew      = "new"
	CallbackHelp     = "help"
	CallbackAdvanced = "advanced"
	CallbackCancel   = "cancel"
	CallbackAutoSave = "autosave"

	// CallbackFavPrefix precedes a saved-content ID.
	CallbackFavPrefix = "fav:"

	// CallbackNewPrefix precedes an optional category for new-topic
	// prompts, e.g. "new:marketing".
	CallbackNewPrefix = "new:"
)

// mainMenuKeyboard is the inline menu offered after /start and after a
// finished generation.
func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📝 موضوع جدید", CallbackData: CallbackNew}},
			{{Text: "❓ راهنما", CallbackData: CallbackHelp}},
			{{Text: "🔍 جستجوی پیشرفته", CallbackData: CallbackAdvanced}},
			{{Text: "❌ لغو", CallbackData: CallbackCancel}},
		},
	}
}

// savedItemKeyboard offers the favorite toggle under one saved item.
func savedItemKeyboard(contentID uint, favorite bool) *models.InlineKeyboardMarkup {
	label := "⭐️ افزودن به علاقه‌مندی‌ها"
	if favorite {
		label = "💫 حذف از علاقه‌مندی‌ها"
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: label, CallbackData: CallbackFavPrefix + itoa(contentID)}},
		},
	}
}

// settingsKeyboard offers the auto-save toggle.
func settingsKeyboard(autoSave bool) *models.InlineKeyboardMarkup {
	label := "💾 ذخیره خودکار: خاموش"
	if autoSave {
		label = "💾 ذخیره خودکار: روشن"
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: label, CallbackData: CallbackAutoSave}},
		},
	}
}
