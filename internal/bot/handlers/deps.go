// Package handlers contains the Telegram command and message handlers,
// along with their registration logic.
package handlers

import (
	"log/slog"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/config"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/explainer"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Explainer *explainer.Service
}
