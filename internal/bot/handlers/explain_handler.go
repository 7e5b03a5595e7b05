package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewExplainHandler creates the default update handler. It inspects every
// incoming message, and when the message is a reply to a photo that mentions
// the bot in an authorized group, it downloads the photo, asks the model to
// explain it, and replies in-thread with the sanitized answer.
func NewExplainHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update == nil || update.Message == nil {
			return
		}

		msg := update.Message
		cfg := deps.Config

		botUsername := ""
		if cfg.Telegram.BotInfo != nil {
			botUsername = cfg.Telegram.BotInfo.Username
		}

		if !cfg.AuthorizedGroups.Allows(msg.Chat.ID) {
			if msg.ReplyToMessage != nil && len(msg.ReplyToMessage.Photo) > 0 && mentionsBot(msg, botUsername) {
				deps.Logger.Warn("ignoring mention from unauthorized group",
					"chat_id", msg.Chat.ID,
					"user_id", senderID(msg))
			}
			return
		}

		if !ShouldProcess(msg, cfg.AuthorizedGroups, botUsername) {
			return
		}

		deps.Logger.Info("processing meme explanation request",
			"chat_id", msg.Chat.ID,
			"message_id", msg.ID,
			"user_id", senderID(msg))

		photo, ok := LargestPhoto(msg.ReplyToMessage.Photo)
		if !ok {
			return
		}

		if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: msg.Chat.ID,
			Action: models.ChatActionTyping,
		}); err != nil {
			deps.Logger.Debug("failed to send typing action", "error", err, "chat_id", msg.Chat.ID)
		}

		data, mimeType, err := DownloadPhoto(ctx, b, cfg.Telegram.Token, photo.FileID)
		if err != nil {
			deps.Logger.Error("failed to download photo",
				"error", err,
				"chat_id", msg.Chat.ID,
				"file_id", photo.FileID)
			return
		}

		explainCtx, cancel := context.WithTimeout(ctx, cfg.Gemini.Timeout)
		answer, err := deps.Explainer.Explain(explainCtx, mimeType, data)
		cancel()
		if err != nil {
			deps.Logger.Error("meme explanation failed",
				"error", err,
				"chat_id", msg.Chat.ID,
				"message_id", msg.ID)

			failText := fmt.Sprintf(cfg.Messages.ProviderFail, err)
			if sendErr := sendReply(ctx, b, msg.Chat.ID, msg.ID, failText, ""); sendErr != nil {
				deps.Logger.Error("failed to send error reply", "error", sendErr, "chat_id", msg.Chat.ID)
			}
			return
		}

		if err := sendReply(ctx, b, msg.Chat.ID, msg.ID, answer, models.ParseModeHTML); err != nil {
			deps.Logger.Error("failed to send explanation reply",
				"error", err,
				"chat_id", msg.Chat.ID,
				"message_id", msg.ID)
		}
	}
}

func senderID(msg *models.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}
