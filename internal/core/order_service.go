package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateOrderInput carries the fields for a new order. Prepaid defaults to 0.
type CreateOrderInput struct {
	ClientID            int64
	SellerID            int64
	ItemCount           int
	SumOfItem           int64
	EveryMonthShouldPay int64
	Prepaid             int64
}

// OrderService owns the installment-order ledger: every mutation re-establishes
// the paid/remaining invariant and the forced-close rule before it commits.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error)
	// AddPayment is the only path that increases total_paid after creation.
	AddPayment(ctx context.Context, orderID int64, amount int64) (*Order, error)
	UpdateOrder(ctx context.Context, orderID int64, upd OrderUpdate) (*Order, error)
	// DeleteOrder removes the order and decrements the owning seller's
	// order_counter (floored at 0) in the same transaction.
	DeleteOrder(ctx context.Context, orderID int64) error

	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	ListOrders(ctx context.Context) ([]OrderRow, error)
	Stats(ctx context.Context) (*OrderStats, error)
}

type orderService struct {
	pool *pgxpool.Pool
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

const orderColumns = `id, client_id, seller_id, item_count, sum_of_item,
	every_month_should_pay, prepaid, total_paid, remaining_amount, order_status,
	last_notification_sent, notification_count, created_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.ClientID, &o.SellerID, &o.ItemCount, &o.SumOfItem,
		&o.EveryMonthShouldPay, &o.Prepaid, &o.TotalPaid, &o.RemainingAmount,
		&o.Status, &o.LastNotificationSent, &o.NotificationCount, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if in.ItemCount <= 0 {
		return nil, validationf("item count must be a positive integer, got %d", in.ItemCount)
	}
	if in.SumOfItem < 0 || in.EveryMonthShouldPay < 0 || in.Prepaid < 0 {
		return nil, validationf("order amounts must be non-negative")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var clientID int64
	err = tx.QueryRow(ctx, "SELECT id FROM clients WHERE id = $1", in.ClientID).Scan(&clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("client", in.ClientID)
		}
		return nil, fmt.Errorf("failed to resolve client %d: %w", in.ClientID, err)
	}

	// Lock the seller row: the counter increment must commit with the order.
	var sellerID int64
	err = tx.QueryRow(ctx, "SELECT id FROM sellers WHERE id = $1 FOR UPDATE", in.SellerID).Scan(&sellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("seller", in.SellerID)
		}
		return nil, fmt.Errorf("failed to resolve seller %d: %w", in.SellerID, err)
	}

	totalPaid := in.Prepaid
	remaining := RemainingAfter(in.SumOfItem, totalPaid)
	status := NextStatus(StatusOpen, remaining)

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (client_id, seller_id, item_count, sum_of_item,
			every_month_should_pay, prepaid, total_paid, remaining_amount, order_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, in.ClientID, in.SellerID, in.ItemCount, in.SumOfItem,
		in.EveryMonthShouldPay, in.Prepaid, totalPaid, remaining, status).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE sellers SET order_counter = order_counter + 1 WHERE id = $1", in.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment seller counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) AddPayment(ctx context.Context, orderID int64, amount int64) (*Order, error) {
	if amount <= 0 {
		return nil, validationf("payment amount must be a positive integer, got %d", amount)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sumOfItem, totalPaid int64
	var status OrderStatus
	err = tx.QueryRow(ctx,
		"SELECT sum_of_item, total_paid, order_status FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&sumOfItem, &totalPaid, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	totalPaid += amount
	remaining := RemainingAfter(sumOfItem, totalPaid)
	status = NextStatus(status, remaining)

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET total_paid = $1, remaining_amount = $2, order_status = $3
		WHERE id = $4
	`, totalPaid, remaining, status, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment to order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID int64, upd OrderUpdate) (*Order, error) {
	if upd.Empty() {
		return nil, validationf("no editable fields supplied for order update")
	}
	if upd.ItemCount != nil && *upd.ItemCount <= 0 {
		return nil, validationf("item count must be a positive integer, got %d", *upd.ItemCount)
	}
	if upd.SumOfItem != nil && *upd.SumOfItem < 0 {
		return nil, validationf("total price must be non-negative")
	}
	if upd.EveryMonthShouldPay != nil && *upd.EveryMonthShouldPay < 0 {
		return nil, validationf("monthly payment must be non-negative")
	}
	if upd.Prepaid != nil && *upd.Prepaid < 0 {
		return nil, validationf("prepaid amount must be non-negative")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, validationf("unknown order status %q", string(*upd.Status))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var curSum, curPrepaid int64
	err = tx.QueryRow(ctx,
		"SELECT sum_of_item, prepaid FROM orders WHERE id = $1 FOR UPDATE",
		orderID,
	).Scan(&curSum, &curPrepaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	set := "UPDATE orders SET "
	var args []any
	add := func(col string, val any) {
		if len(args) > 0 {
			set += ", "
		}
		args = append(args, val)
		set += fmt.Sprintf("%s = $%d", col, len(args))
	}

	if upd.ItemCount != nil {
		add("item_count", *upd.ItemCount)
	}
	if upd.SumOfItem != nil {
		add("sum_of_item", *upd.SumOfItem)
	}
	if upd.EveryMonthShouldPay != nil {
		add("every_month_should_pay", *upd.EveryMonthShouldPay)
	}
	if upd.Prepaid != nil {
		add("prepaid", *upd.Prepaid)
	}
	if upd.Status != nil {
		add("order_status", *upd.Status)
	}

	// Editing the total price or the prepaid amount recomputes the remaining
	// balance from those two fields. total_paid is deliberately untouched:
	// only AddPayment moves it.
	if upd.SumOfItem != nil || upd.Prepaid != nil {
		newSum, newPrepaid := curSum, curPrepaid
		if upd.SumOfItem != nil {
			newSum = *upd.SumOfItem
		}
		if upd.Prepaid != nil {
			newPrepaid = *upd.Prepaid
		}
		add("remaining_amount", RemainingAfter(newSum, newPrepaid))
	}

	args = append(args, orderID)
	set += fmt.Sprintf(" WHERE id = $%d", len(args))

	if _, err := tx.Exec(ctx, set, args...); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sellerID int64
	err = tx.QueryRow(ctx,
		"DELETE FROM orders WHERE id = $1 RETURNING seller_id", orderID,
	).Scan(&sellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("order", orderID)
		}
		return fmt.Errorf("failed to delete order %d: %w", orderID, err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE sellers SET order_counter = GREATEST(order_counter - 1, 0) WHERE id = $1",
		sellerID)
	if err != nil {
		return fmt.Errorf("failed to decrement seller counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order deletion: %w", err)
	}
	return nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	var c Client
	err = s.pool.QueryRow(ctx, `
		SELECT id, full_name, phone, latitude, longitude, COALESCE(address, ''),
		       COALESCE(passport_serial, ''), COALESCE(notes, ''), created_at
		FROM clients WHERE id = $1
	`, o.ClientID).Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Latitude, &c.Longitude, &c.Address,
		&c.PassportSerial, &c.Notes, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client for order %d: %w", orderID, err)
	}
	o.Client = &c
	return o, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]OrderRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT o.id, o.client_id, o.seller_id, o.item_count, o.sum_of_item,
		       o.every_month_should_pay, o.prepaid, o.total_paid, o.remaining_amount,
		       o.order_status, o.last_notification_sent, o.notification_count, o.created_at,
		       c.full_name, c.phone, COALESCE(c.passport_serial, ''), s.full_name
		FROM orders o
		JOIN clients c ON c.id = o.client_id
		JOIN sellers s ON s.id = o.seller_id
		ORDER BY o.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		var r OrderRow
		if err := rows.Scan(
			&r.ID, &r.ClientID, &r.SellerID, &r.ItemCount, &r.SumOfItem,
			&r.EveryMonthShouldPay, &r.Prepaid, &r.TotalPaid, &r.RemainingAmount,
			&r.Status, &r.LastNotificationSent, &r.NotificationCount, &r.CreatedAt,
			&r.ClientName, &r.ClientPhone, &r.ClientPassport, &r.SellerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *orderService) Stats(ctx context.Context) (*OrderStats, error) {
	var st OrderStats
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(item_count), 0), COALESCE(SUM(total_paid), 0),
		       COALESCE(SUM(remaining_amount), 0), COALESCE(SUM(sum_of_item), 0)
		FROM orders
	`).Scan(&st.TotalItems, &st.TotalPaid, &st.TotalRemaining, &st.TotalSum)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	return &st, nil
}
