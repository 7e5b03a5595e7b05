// Package explainer implements the explanation request flow: it asks the
// inference provider for a meme explanation, optionally short-circuiting
// through a content-addressed response cache, and converts the answer into
// Telegram-safe HTML.
package explainer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/database"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/gemini"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/markup"
)

// Service produces meme explanations ready to be sent to Telegram.
type Service struct {
	provider  gemini.Client
	store     database.Store
	converter *markup.Converter
	model     string
	log       *slog.Logger
}

// New creates an explanation service. store may be nil, in which case every
// request goes to the provider.
func New(provider gemini.Client, store database.Store, model string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		provider:  provider,
		store:     store,
		converter: markup.NewTelegramConverter(),
		model:     model,
		log:       log.With("component", "explainer"),
	}
}

// Explain returns a Telegram-HTML explanation for the given image. The raw
// model output is what gets cached; sanitization runs on every call so cached
// and fresh answers go through the same conversion.
func (s *Service) Explain(ctx context.Context, mimeType string, data []byte) (string, error) {
	key := CacheKey(s.model, gemini.ExplainPrompt, data)

	if s.store != nil {
		cached, ok, err := s.store.GetCachedResponse(ctx, key)
		if err != nil {
			s.log.WarnContext(ctx, "cache lookup failed, falling through to provider", "error", err)
		} else if ok {
			s.log.DebugContext(ctx, "cache hit", "key", key)
			return s.converter.ToTelegramHTML(cached), nil
		}
	}

	s.log.InfoContext(ctx, "calling provider to explain image", "image_size", len(data), "model", s.model)
	raw, err := s.provider.ExplainImage(ctx, mimeType, data)
	if err != nil {
		return "", fmt.Errorf("explanation request failed: %w", err)
	}

	if s.store != nil {
		entry := &database.CachedResponse{
			Key:       key,
			Model:     s.model,
			Response:  raw,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.PutCachedResponse(ctx, entry); err != nil {
			// Cache writes are best effort; the answer is already in hand.
			s.log.WarnContext(ctx, "failed to store cache entry", "error", err)
		}
	}

	return s.converter.ToTelegramHTML(raw), nil
}

// CacheKey derives the content address for a provider request: identical
// model, instruction, and image bytes always map to the same key.
func CacheKey(model, instruction string, image []byte) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(instruction))
	h.Write([]byte{0})
	h.Write(image)
	return hex.EncodeToString(h.Sum(nil))
}
