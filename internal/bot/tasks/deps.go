// Package tasks implements the bot's scheduled background work: due
// reminder dispatch and database maintenance.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/mjsalimin/postyar/internal/config"
	"github.com/mjsalimin/postyar/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
	TgBot  *tgbot.Bot
}
