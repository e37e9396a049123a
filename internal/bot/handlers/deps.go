package handlers

import (
	"context"
	"log/slog"

	"github.com/mjsalimin/postyar/internal/config"
	"github.com/mjsalimin/postyar/internal/database"
	"github.com/mjsalimin/postyar/internal/generate"
	"github.com/mjsalimin/postyar/internal/research"
	"github.com/mjsalimin/postyar/internal/session"
)

// Researcher is the slice of the research aggregator handlers need.
type Researcher interface {
	Research(ctx context.Context, topic string) *research.Bundle
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Generator  generate.Client
	Fallback   *generate.LocalGenerator
	Researcher Researcher
	Sessions   *session.Store
}
