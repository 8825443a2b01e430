package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sulaymanovI/diamond-water-bot/internal/adapters/telegram"
	"github.com/sulaymanovI/diamond-water-bot/internal/ai"
	"github.com/sulaymanovI/diamond-water-bot/internal/app"
	"github.com/sulaymanovI/diamond-water-bot/internal/config"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
	"github.com/sulaymanovI/diamond-water-bot/internal/db"
	"github.com/sulaymanovI/diamond-water-bot/internal/logger"
	"github.com/sulaymanovI/diamond-water-bot/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Telegram.BotToken == "" {
		log.Fatal("BOT_TOKEN is not set")
	}

	zl, err := logger.NewZapLog(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	slog := zl.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Fatalw("database connect failed", "error", err)
	}
	defer pool.Close()

	orders := core.NewOrderService(pool)
	clients := core.NewClientService(pool)
	sellers := core.NewSellerService(pool)
	consumptions := core.NewConsumptionService(pool)

	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; natural-language messages will fail")
	}
	agent := ai.NewAgent(cfg.OpenAIAPIKey)
	svc := app.NewAppService(orders, clients, sellers, consumptions, agent)

	tg := notify.NewTelegramClient(cfg.Telegram.BotToken)

	notifier := notify.NewNotifier(pool, orders, tg, cfg.Telegram.ChannelID, slog,
		cfg.Scheduler.SendTimeout, cfg.Scheduler.SendDelay)
	scheduler := notify.NewScheduler(notifier, cfg.Scheduler.ScanInterval, slog)
	go scheduler.Run(ctx)

	gate := app.NewGate(cfg.Telegram.AllowedUserIDs)
	if len(cfg.Telegram.AllowedUserIDs) == 0 {
		slog.Warn("ALLOWED_USER_IDS is empty; every inbound message will be ignored")
	}

	bot := telegram.NewBot(svc, tg, gate, slog, cfg.Telegram.PollTimeout)
	slog.Infow("bot started", "scan_interval", cfg.Scheduler.ScanInterval)

	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Fatalw("bot stopped", "error", err)
	}
	slog.Info("shutdown complete")
}
