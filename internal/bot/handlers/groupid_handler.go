package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewGroupIDHandler creates a handler for the /groupid command. It echoes the
// chat ID so administrators can populate the group allow list.
func NewGroupIDHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update == nil || update.Message == nil {
			return
		}

		msg := update.Message
		text := fmt.Sprintf("This group's chat ID is: <code>%d</code>", msg.Chat.ID)
		if err := sendReply(ctx, b, msg.Chat.ID, 0, text, models.ParseModeHTML); err != nil {
			deps.Logger.Error("failed to send group ID", "error", err, "chat_id", msg.Chat.ID)
		}
	}
}
