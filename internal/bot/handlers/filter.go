package handlers

import (
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/config"
)

// ShouldProcess reports whether a message is eligible for the explanation
// flow. A message qualifies only when its chat is allowed by the policy, it
// replies to a message carrying at least one photo, and its text holds a
// mention entity whose slice equals "@"+botUsername. It is a pure decision
// over the message snapshot; callers decide what to log.
func ShouldProcess(msg *models.Message, policy config.GroupPolicy, botUsername string) bool {
	if msg == nil || botUsername == "" {
		return false
	}
	if !policy.Allows(msg.Chat.ID) {
		return false
	}
	if msg.ReplyToMessage == nil || len(msg.ReplyToMessage.Photo) == 0 {
		return false
	}
	return mentionsBot(msg, botUsername)
}

// mentionsBot checks the message's mention entities against the bot handle.
// Any single matching mention is enough; unrelated entities are ignored.
// Usernames are case-insensitive on Telegram, so the comparison folds case.
func mentionsBot(msg *models.Message, botUsername string) bool {
	text := msg.Text
	want := "@" + strings.ToLower(botUsername)

	for _, e := range msg.Entities {
		if e.Type != models.MessageEntityTypeMention {
			continue
		}
		if e.Offset < 0 || e.Length <= 0 || e.Offset+e.Length > len(text) {
			continue
		}
		if strings.ToLower(text[e.Offset:e.Offset+e.Length]) == want {
			return true
		}
	}
	return false
}

// LargestPhoto returns the photo variant with the most pixels. Telegram
// usually orders variants ascending by size, but that ordering is not part
// of the API contract, so dimensions are compared explicitly.
func LargestPhoto(sizes []models.PhotoSize) (models.PhotoSize, bool) {
	if len(sizes) == 0 {
		return models.PhotoSize{}, false
	}

	best := sizes[0]
	bestPixels := best.Width * best.Height
	for _, p := range sizes[1:] {
		if pixels := p.Width * p.Height; pixels > bestPixels {
			best = p
			bestPixels = pixels
		}
	}
	return best, true
}
