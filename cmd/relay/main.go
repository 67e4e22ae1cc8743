package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stupiduntilnot/relaybot/internal/backend"
	"github.com/stupiduntilnot/relaybot/internal/config"
	"github.com/stupiduntilnot/relaybot/internal/history"
	"github.com/stupiduntilnot/relaybot/internal/instancelock"
	"github.com/stupiduntilnot/relaybot/internal/relay"
	"github.com/stupiduntilnot/relaybot/internal/telegram"
	"github.com/stupiduntilnot/relaybot/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Sugar().Fatalw("load config", "err", err)
	}

	var zlogger *zap.Logger
	if cfg.Debug {
		zlogger, _ = zap.NewDevelopment()
	} else {
		zlogger, _ = zap.NewProduction()
	}
	defer zlogger.Sync()
	log := zlogger.Sugar()

	// One relay per store: two pollers on the same bot token would
	// produce duplicate replies.
	lock, err := instancelock.Acquire(cfg.LockPath, cfg.LockTimeout)
	if err != nil {
		log.Fatalw("another relay instance appears to be running", "err", err)
	}
	defer lock.Release()

	store, err := history.Open(cfg.DBPath)
	if err != nil {
		log.Fatalw("open history store", "err", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(); err != nil {
		log.Fatalw("ensure history schema", "err", err)
	}

	adapter := backend.NewAdapter(newGenerator(cfg), cfg.BackendTimeout, log)
	r := relay.New(store, adapter, cfg.SystemPrompt, cfg.HistoryWindow, log)

	bot, err := telegram.NewBot(cfg.TelegramToken, r, log)
	if err != nil {
		log.Fatalw("init telegram bot", "err", err)
	}

	srv := web.New(cfg.HTTPListen)
	go func() {
		if err := srv.Serve(); err != nil {
			log.Warnw("health server stopped", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("relay starting", "provider", cfg.Provider, "db", cfg.DBPath, "listen", cfg.HTTPListen)
	bot.Run(ctx)

	log.Info("shutting down")
	if err := srv.Stop(context.Background()); err != nil {
		log.Warnw("health server shutdown", "err", err)
	}
}

// newGenerator selects the backend variant. Provider validity is
// checked at config load time.
func newGenerator(cfg config.Config) backend.Generator {
	if cfg.Provider == "gemini" {
		return backend.NewGemini(cfg.GeminiKey, cfg.GeminiModel)
	}
	return backend.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
}
