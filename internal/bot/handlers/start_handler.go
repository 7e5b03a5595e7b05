package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler creates a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update == nil || update.Message == nil {
			return
		}

		msg := update.Message
		if err := sendReply(ctx, b, msg.Chat.ID, 0, deps.Config.Messages.Welcome, ""); err != nil {
			deps.Logger.Error("failed to send welcome message", "error", err, "chat_id", msg.Chat.ID)
		}
	}
}
