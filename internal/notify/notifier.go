package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

// EligibilityThreshold is the reminder cadence: an order qualifies once it is
// 30 days old and again every 30 days after the last successful notification.
const EligibilityThreshold = 30 * 24 * time.Hour

const reportMarkName = "monthly_report"

var uzbekMonths = [...]string{
	"Yanvar", "Fevral", "Mart", "Aprel", "May", "Iyun",
	"Iyul", "Avgust", "Sentyabr", "Oktyabr", "Noyabr", "Dekabr",
}

// dueOrder is one reminder candidate with the client fields the message needs.
type dueOrder struct {
	ID              int64
	SumOfItem       int64
	TotalPaid       int64
	RemainingAmount int64
	CreatedAt       time.Time
	ClientName      string
	ClientPhone     string
}

// Notifier scans the order ledger and broadcasts reminders and the monthly
// aggregate report to a single configured destination.
type Notifier struct {
	pool        *pgxpool.Pool
	orders      core.OrderService
	sender      Sender
	channelID   string
	log         *zap.SugaredLogger
	sendTimeout time.Duration
	sendDelay   time.Duration
	now         func() time.Time
}

func NewNotifier(pool *pgxpool.Pool, orders core.OrderService, sender Sender, channelID string, log *zap.SugaredLogger, sendTimeout, sendDelay time.Duration) *Notifier {
	return &Notifier{
		pool:        pool,
		orders:      orders,
		sender:      sender,
		channelID:   channelID,
		log:         log,
		sendTimeout: sendTimeout,
		sendDelay:   sendDelay,
		now:         time.Now,
	}
}

// ScanOnce finds every order past the eligibility threshold and sends one
// reminder per order. Each successful send is committed individually, so one
// failed delivery never blocks the rest of the scan; failed orders stay
// eligible and are retried on the next tick.
func (n *Notifier) ScanOnce(ctx context.Context) (int, error) {
	due, err := n.dueOrders(ctx)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		n.log.Debug("no orders requiring notification")
		return 0, nil
	}
	n.log.Infow("orders requiring notification", "count", len(due))

	sent := 0
	for i, o := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if i > 0 && n.sendDelay > 0 {
			// Pacing between sends, per the channel's rate limit.
			select {
			case <-time.After(n.sendDelay):
			case <-ctx.Done():
				return sent, ctx.Err()
			}
		}

		sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
		err := n.sender.SendMessage(sendCtx, n.channelID, reminderText(o))
		cancel()
		if err != nil {
			n.log.Warnw("reminder delivery failed", "order_id", o.ID, "err", err)
			continue
		}

		if err := n.markNotified(ctx, o.ID); err != nil {
			return sent, err
		}
		sent++
		n.log.Infow("reminder sent", "order_id", o.ID)
	}
	return sent, nil
}

func (n *Notifier) dueOrders(ctx context.Context) ([]dueOrder, error) {
	threshold := n.now().Add(-EligibilityThreshold)

	rows, err := n.pool.Query(ctx, `
		SELECT o.id, o.sum_of_item, o.total_paid, o.remaining_amount, o.created_at,
		       c.full_name, c.phone
		FROM orders o
		JOIN clients c ON c.id = o.client_id
		WHERE o.created_at <= $1
		  AND (o.last_notification_sent IS NULL OR o.last_notification_sent < $1)
	`, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query due orders: %w", err)
	}
	defer rows.Close()

	var out []dueOrder
	for rows.Next() {
		var o dueOrder
		if err := rows.Scan(&o.ID, &o.SumOfItem, &o.TotalPaid, &o.RemainingAmount,
			&o.CreatedAt, &o.ClientName, &o.ClientPhone); err != nil {
			return nil, fmt.Errorf("failed to scan due order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (n *Notifier) markNotified(ctx context.Context, orderID int64) error {
	_, err := n.pool.Exec(ctx, `
		UPDATE orders
		SET last_notification_sent = $1, notification_count = notification_count + 1
		WHERE id = $2
	`, n.now(), orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order %d notified: %w", orderID, err)
	}
	return nil
}

func reminderText(o dueOrder) string {
	return fmt.Sprintf(
		"1 oy bo'ldi! Buyurtma haqida eslatma:\n\n"+
			"Buyurtma ID: #%d\n"+
			"Mijoz: %s\n"+
			"Tel: %s\n"+
			"Umumiy summa: %d so'm\n"+
			"To'langan: %d so'm\n"+
			"Qoldiq: %d so'm\n"+
			"Buyurtma sanasi: %s",
		o.ID, o.ClientName, o.ClientPhone,
		o.SumOfItem, o.TotalPaid, o.RemainingAmount,
		o.CreatedAt.Format("2006-01-02"),
	)
}

// MaybeSendMonthlyReport sends the aggregate report at most once per calendar
// month, tracked by a durable marker row so a restart around month boundaries
// neither skips nor duplicates the report.
func (n *Notifier) MaybeSendMonthlyReport(ctx context.Context) (bool, error) {
	month := n.now().Format("2006-01")

	var last string
	err := n.pool.QueryRow(ctx,
		"SELECT last_month FROM report_marks WHERE name = $1", reportMarkName,
	).Scan(&last)
	switch {
	case err == nil:
		if last == month {
			return false, nil
		}
	case errors.Is(err, pgx.ErrNoRows):
		// Missing row means the report has never been sent.
	default:
		// A failed read must not look like "never sent": sending here could
		// duplicate the report once the store recovers.
		return false, fmt.Errorf("failed to read report mark: %w", err)
	}

	stats, err := n.orders.Stats(ctx)
	if err != nil {
		return false, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()
	if err := n.sender.SendMessage(sendCtx, n.channelID, reportText(n.now(), stats)); err != nil {
		return false, err
	}

	_, err = n.pool.Exec(ctx, `
		INSERT INTO report_marks (name, last_month) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET last_month = EXCLUDED.last_month
	`, reportMarkName, month)
	if err != nil {
		return true, fmt.Errorf("failed to record report mark: %w", err)
	}
	return true, nil
}

// reportText summarizes the whole ledger, headed by the previous month's name.
func reportText(now time.Time, st *core.OrderStats) string {
	lastMonth := now.AddDate(0, 0, -now.Day()) // last day of the previous month
	header := fmt.Sprintf("%s %d", uzbekMonths[lastMonth.Month()-1], lastMonth.Year())

	return fmt.Sprintf(
		"%s uchun hisobot:\n\n"+
			"Jami buyurtmalar soni: %d\n"+
			"Jami summa: %d so'm\n"+
			"Jami to'langan: %d so'm\n"+
			"Jami qoldiq: %d so'm",
		header, st.TotalItems, st.TotalSum, st.TotalPaid, st.TotalRemaining,
	)
}
