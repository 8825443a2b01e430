package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sulaymanovI/diamond-water-bot/internal/app"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
	"github.com/sulaymanovI/diamond-water-bot/internal/notify"
)

// Bot is the conversational Telegram front end. It long-polls for updates,
// gates every sender against the operator allow-list, and routes messages:
// slash commands dispatch deterministically, everything else goes through
// the interpreter. Write actions are held per chat until confirmed.
type Bot struct {
	svc         app.ApplicationService
	client      *notify.TelegramClient
	gate        *app.Gate
	log         *zap.SugaredLogger
	pollTimeout int

	// pending write proposals keyed by chat id; one at a time per chat.
	pending map[int64]*app.PendingAction
}

func NewBot(svc app.ApplicationService, client *notify.TelegramClient, gate *app.Gate, log *zap.SugaredLogger, pollTimeout int) *Bot {
	return &Bot{
		svc:         svc,
		client:      client,
		gate:        gate,
		log:         log,
		pollTimeout: pollTimeout,
		pending:     make(map[int64]*app.PendingAction),
	}
}

// Run polls until ctx is cancelled. Poll failures back off and retry; a
// single bad update never stops the loop.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warnw("poll failed", "error", err)
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u notify.Update) {
	if u.Message == nil || u.Message.Text == "" {
		return
	}
	userID := u.Message.From.ID
	chatID := strconv.FormatInt(u.Message.Chat.ID, 10)

	if !b.gate.Allowed(userID) {
		b.log.Infow("ignored message from unknown user", "user_id", userID)
		return
	}

	text := strings.TrimSpace(u.Message.Text)

	if strings.HasPrefix(text, "/") {
		b.dispatchCommand(ctx, chatID, u.Message.Chat.ID, text)
		return
	}

	// A pending proposal absorbs the next plain message as confirm/cancel.
	if p, ok := b.pending[u.Message.Chat.ID]; ok {
		delete(b.pending, u.Message.Chat.ID)
		b.resolvePending(ctx, chatID, text, p)
		return
	}

	b.interpret(ctx, chatID, u.Message.Chat.ID, text)
}

func (b *Bot) dispatchCommand(ctx context.Context, chatID string, numericChat int64, text string) {
	delete(b.pending, numericChat) // a command cancels any open proposal

	cmd := strings.ToLower(strings.Fields(text)[0])
	switch cmd {
	case "/start", "/help":
		b.send(ctx, chatID, helpText)

	case "/orders":
		b.reply(ctx, chatID, func() (string, error) {
			res, err := b.svc.ListOrders(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Buyurtmalar soni: %d. To'liq ro'yxat uchun /export_orders", len(res.Orders)), nil
		})

	case "/stats":
		b.reply(ctx, chatID, func() (string, error) {
			st, err := b.svc.OrderStats(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Mahsulotlar: %d\nUmumiy: %d so'm\nTo'langan: %d so'm\nQoldiq: %d so'm",
				st.TotalItems, st.TotalSum, st.TotalPaid, st.TotalRemaining), nil
		})

	case "/export_orders":
		b.sendExport(ctx, chatID, b.svc.ExportOrders, "Buyurtmalar hisoboti")

	case "/export_sellers":
		b.sendExport(ctx, chatID, b.svc.ExportSellers, "Sotuvchilar hisoboti")

	case "/export_consumptions":
		b.sendExport(ctx, chatID, b.svc.ExportConsumptions, "Xarajatlar hisoboti")

	case "/cancel":
		b.send(ctx, chatID, "Bekor qilindi.")

	default:
		b.send(ctx, chatID, "Noma'lum buyruq. /help ni ko'ring.")
	}
}

func (b *Bot) interpret(ctx context.Context, chatID string, numericChat int64, text string) {
	result, err := b.svc.Interpret(ctx, text)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	switch {
	case result.Clarification != "":
		b.send(ctx, chatID, result.Clarification)

	case result.Pending != nil:
		b.pending[numericChat] = result.Pending
		b.send(ctx, chatID, fmt.Sprintf("%s\n\nTasdiqlaysizmi? (ha/yo'q)", result.Pending.Summary))

	default:
		b.send(ctx, chatID, result.Answer)
	}
}

func (b *Bot) resolvePending(ctx context.Context, chatID, text string, p *app.PendingAction) {
	if !isAffirmative(text) {
		b.send(ctx, chatID, "Bekor qilindi.")
		return
	}
	answer, err := b.svc.ExecuteAction(ctx, p.Name, p.Args)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}
	b.send(ctx, chatID, answer)
}

func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "ha", "xa", "yes", "da", "+", "ok":
		return true
	}
	return false
}

func (b *Bot) sendExport(ctx context.Context, chatID string, fn func(context.Context) (*app.ExportResult, error), caption string) {
	res, err := fn(ctx)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}
	if err := b.client.SendDocument(ctx, chatID, res.Filename, res.Data, caption); err != nil {
		b.log.Errorw("document send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(ctx context.Context, chatID string, fn func() (string, error)) {
	text, err := fn()
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}
	b.send(ctx, chatID, text)
}

func (b *Bot) send(ctx context.Context, chatID, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil {
		b.log.Errorw("send failed", "chat_id", chatID, "error", err)
	}
}

// sendError maps known domain errors onto operator-friendly text; anything
// else is logged and reported generically.
func (b *Bot) sendError(ctx context.Context, chatID string, err error) {
	var (
		vErr *core.ValidationError
		nErr *core.NotFoundError
		dErr *core.DuplicateError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &nErr), errors.As(err, &dErr):
		b.send(ctx, chatID, "Xatolik: "+err.Error())
	default:
		b.log.Errorw("operation failed", "error", err)
		b.send(ctx, chatID, "Ichki xatolik yuz berdi, keyinroq urinib ko'ring.")
	}
}

const helpText = `Diamond Water CRM

Oddiy til bilan yozing, masalan:
- "AB1234567 mijozga 12 oyga 3 mln so'mlik buyurtma och"
- "5-buyurtmaga 250000 to'lov qo'sh"
- "Bekzod 150000.50 benzin xarajati"

Buyruqlar:
/orders — buyurtmalar soni
/stats — umumiy statistika
/export_orders — buyurtmalar (xlsx)
/export_sellers — sotuvchilar (xlsx)
/export_consumptions — xarajatlar (xlsx)
/cancel — joriy amalni bekor qilish`
