// Package tasks implements the bot's scheduled background tasks.
package tasks

import (
	"log/slog"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/config"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
