// Package main contains the entrypoint for the meme explainer bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/bot"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/bot/handlers"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/bot/tasks"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/config"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/database"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/explainer"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/gemini"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/logger"
	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	if cfg.AuthorizedGroups == nil {
		log.Info("No authorized group list configured, responding in all chats")
	} else {
		log.Info("Group allow list active", "group_count", len(cfg.AuthorizedGroups))
	}

	// The response cache is optional. Without it every request goes straight
	// to the provider and no database file is created.
	var store database.Store
	if cfg.Cache.Enabled {
		db, err := database.NewDB(cfg.Cache.Path)
		if err != nil {
			log.Error("Failed to open cache database", "path", cfg.Cache.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)
		store = database.NewStore(db, log)
	} else {
		log.Info("Response cache disabled")
	}

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	svc := explainer.New(gemClient, store, cfg.Gemini.Model, log)

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Explainer: svc,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithDefaultHandler(handlers.NewExplainHandler(hDeps)),
	}
	if cfg.Log.DebugUpdates {
		botOpts = append(botOpts, tgbot.WithMiddlewares(logger.UpdateMiddleware(log)))
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Bot identity is needed to recognize mentions; keep it next to the rest
	// of the Telegram settings.
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
