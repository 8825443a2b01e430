package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sulaymanovI/diamond-water-bot/internal/adapters/repl"
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

	zl, err := logger.NewZapLog(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	slog := zl.Sugar()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	orders := core.NewOrderService(pool)
	clients := core.NewClientService(pool)
	sellers := core.NewSellerService(pool)
	consumptions := core.NewConsumptionService(pool)

	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set")
	}
	agent := ai.NewAgent(cfg.OpenAIAPIKey)
	svc := app.NewAppService(orders, clients, sellers, consumptions, agent)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "scan":
			// One eligibility pass over the order book, then exit.
			tg := notify.NewTelegramClient(cfg.Telegram.BotToken)
			notifier := notify.NewNotifier(pool, orders, tg, cfg.Telegram.ChannelID, slog,
				cfg.Scheduler.SendTimeout, cfg.Scheduler.SendDelay)
			sent, err := notifier.ScanOnce(ctx)
			if err != nil {
				log.Fatalf("Scan failed: %v", err)
			}
			fmt.Printf("Reminders sent: %d\n", sent)

		case "report":
			tg := notify.NewTelegramClient(cfg.Telegram.BotToken)
			notifier := notify.NewNotifier(pool, orders, tg, cfg.Telegram.ChannelID, slog,
				cfg.Scheduler.SendTimeout, cfg.Scheduler.SendDelay)
			sent, err := notifier.MaybeSendMonthlyReport(ctx)
			if err != nil {
				log.Fatalf("Report failed: %v", err)
			}
			if sent {
				fmt.Println("Monthly report sent.")
			} else {
				fmt.Println("Monthly report already sent for this month.")
			}

		case "export":
			if len(os.Args) < 3 {
				log.Fatal("Usage: app export orders|sellers|consumptions")
			}
			exportToFile(ctx, svc, os.Args[2])

		case "stats":
			st, err := svc.OrderStats(ctx)
			if err != nil {
				log.Fatalf("Stats failed: %v", err)
			}
			fmt.Printf("Items: %d\nTotal: %d\nPaid: %d\nRemaining: %d\n",
				st.TotalItems, st.TotalSum, st.TotalPaid, st.TotalRemaining)

		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}

func exportToFile(ctx context.Context, svc app.ApplicationService, kind string) {
	var (
		result *app.ExportResult
		err    error
	)
	switch kind {
	case "orders":
		result, err = svc.ExportOrders(ctx)
	case "sellers":
		result, err = svc.ExportSellers(ctx)
	case "consumptions":
		result, err = svc.ExportConsumptions(ctx)
	default:
		log.Fatalf("Unknown export target: %s", kind)
	}
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	if err := os.WriteFile(result.Filename, result.Data, 0o644); err != nil {
		log.Fatalf("Write failed: %v", err)
	}
	fmt.Printf("Exported to %s\n", result.Filename)
}
