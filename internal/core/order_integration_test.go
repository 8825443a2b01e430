package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE orders, clients, sellers, consumptions, report_marks RESTART IDENTITY CASCADE;

		INSERT INTO clients (full_name, phone, passport_serial, address) VALUES
		('Alisher Usmonov', '+998901112233', 'AB1234567', 'Chilonzor 5'),
		('Dilnoza Karimova', '+998909998877', 'AC7654321', 'Yunusobod 12');

		INSERT INTO sellers (full_name, phone, passport_serial, salary_of_seller) VALUES
		('Bekzod Tashkentov', '+998933334455', 'AD1112223', 3000000);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func sellerCounter(t *testing.T, pool *pgxpool.Pool, sellerID int64) int {
	t.Helper()
	var counter int
	err := pool.QueryRow(context.Background(),
		"SELECT order_counter FROM sellers WHERE id = $1", sellerID).Scan(&counter)
	if err != nil {
		t.Fatalf("Failed to read seller counter: %v", err)
	}
	return counter
}

func TestOrderService_InstallmentLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewOrderService(pool)

	// Create: 12 bottles, 1_200_000 total, 100_000/month, 200_000 prepaid.
	order, err := svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 1, SellerID: 1,
		ItemCount: 12, SumOfItem: 1_200_000,
		EveryMonthShouldPay: 100_000, Prepaid: 200_000,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.Status != core.StatusOpen {
		t.Errorf("Expected Ochiq, got %s", order.Status)
	}
	if order.TotalPaid != 200_000 {
		t.Errorf("Expected total_paid 200000, got %d", order.TotalPaid)
	}
	if order.RemainingAmount != 1_000_000 {
		t.Errorf("Expected remaining 1000000, got %d", order.RemainingAmount)
	}
	if order.Client == nil || order.Client.FullName != "Alisher Usmonov" {
		t.Error("Expected client attached to order")
	}
	if got := sellerCounter(t, pool, 1); got != 1 {
		t.Errorf("Expected seller counter 1, got %d", got)
	}

	// Partial payment keeps the order open.
	order, err = svc.AddPayment(ctx, order.ID, 400_000)
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	if order.TotalPaid != 600_000 || order.RemainingAmount != 600_000 {
		t.Errorf("Expected paid/remaining 600000/600000, got %d/%d",
			order.TotalPaid, order.RemainingAmount)
	}
	if order.Status != core.StatusOpen {
		t.Errorf("Expected Ochiq after partial payment, got %s", order.Status)
	}

	// Overpayment clamps remaining at zero and force-closes the order.
	order, err = svc.AddPayment(ctx, order.ID, 700_000)
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	if order.TotalPaid != 1_300_000 {
		t.Errorf("Expected total_paid 1300000, got %d", order.TotalPaid)
	}
	if order.RemainingAmount != 0 {
		t.Errorf("Expected remaining clamped at 0, got %d", order.RemainingAmount)
	}
	if order.Status != core.StatusClosed {
		t.Errorf("Expected Yopilgan at zero balance, got %s", order.Status)
	}

	// Delete decrements the counter.
	if err := svc.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if got := sellerCounter(t, pool, 1); got != 0 {
		t.Errorf("Expected seller counter back to 0, got %d", got)
	}
	if _, err := svc.GetOrder(ctx, order.ID); err == nil {
		t.Error("Expected not found after delete")
	}
}

func TestOrderService_DeleteFloorsCounterAtZero(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewOrderService(pool)

	// Seed the order row directly so the seller counter stays at its default 0,
	// as happens for rows imported from the legacy database.
	var orderID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO orders (client_id, seller_id, item_count, sum_of_item,
			every_month_should_pay, prepaid, total_paid, remaining_amount, order_status)
		VALUES (1, 1, 1, 100000, 10000, 0, 0, 100000, 'Ochiq')
		RETURNING id
	`).Scan(&orderID)
	if err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	if got := sellerCounter(t, pool, 1); got != 0 {
		t.Fatalf("Expected seeded counter 0, got %d", got)
	}

	if err := svc.DeleteOrder(ctx, orderID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if got := sellerCounter(t, pool, 1); got != 0 {
		t.Errorf("Expected counter floored at 0, got %d", got)
	}
}

func TestOrderService_FullPrepaidClosesImmediately(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewOrderService(pool)

	order, err := svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 2, SellerID: 1,
		ItemCount: 1, SumOfItem: 500_000,
		EveryMonthShouldPay: 0, Prepaid: 500_000,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.Status != core.StatusClosed {
		t.Errorf("Expected Yopilgan when prepaid covers the price, got %s", order.Status)
	}
	if order.RemainingAmount != 0 {
		t.Errorf("Expected remaining 0, got %d", order.RemainingAmount)
	}
}

func TestOrderService_ReturnedSurvivesZeroBalance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewOrderService(pool)

	order, err := svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 1, SellerID: 1,
		ItemCount: 2, SumOfItem: 300_000,
		EveryMonthShouldPay: 50_000, Prepaid: 0,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	returned := core.StatusReturned
	order, err = svc.UpdateOrder(ctx, order.ID, core.OrderUpdate{Status: &returned})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if order.Status != core.StatusReturned {
		t.Fatalf("Expected Qaytarilgan, got %s", order.Status)
	}

	// Paying the returned order down to zero must not flip it to Yopilgan.
	order, err = svc.AddPayment(ctx, order.ID, 300_000)
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	if order.RemainingAmount != 0 {
		t.Errorf("Expected remaining 0, got %d", order.RemainingAmount)
	}
	if order.Status != core.StatusReturned {
		t.Errorf("Expected Qaytarilgan preserved at zero balance, got %s", order.Status)
	}
}

func TestOrderService_UpdateRecomputesFromSumAndPrepaid(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewOrderService(pool)

	order, err := svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 1, SellerID: 1,
		ItemCount: 5, SumOfItem: 1_000_000,
		EveryMonthShouldPay: 100_000, Prepaid: 100_000,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Record a payment first so total_paid differs from prepaid.
	if _, err := svc.AddPayment(ctx, order.ID, 200_000); err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}

	// Editing the price recomputes remaining from the NEW sum and the
	// (unchanged) prepaid, not from total_paid.
	newSum := int64(800_000)
	order, err = svc.UpdateOrder(ctx, order.ID, core.OrderUpdate{SumOfItem: &newSum})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if order.RemainingAmount != 700_000 {
		t.Errorf("Expected remaining 700000 (800000 - 100000 prepaid), got %d", order.RemainingAmount)
	}
	if order.TotalPaid != 300_000 {
		t.Errorf("Expected total_paid untouched at 300000, got %d", order.TotalPaid)
	}

	// Editing an unrelated field leaves remaining alone.
	items := 7
	order, err = svc.UpdateOrder(ctx, order.ID, core.OrderUpdate{ItemCount: &items})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if order.ItemCount != 7 {
		t.Errorf("Expected item_count 7, got %d", order.ItemCount)
	}
	if order.RemainingAmount != 700_000 {
		t.Errorf("Expected remaining unchanged, got %d", order.RemainingAmount)
	}
}

func TestOrderService_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewOrderService(pool)

	var vErr *core.ValidationError
	_, err := svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 1, SellerID: 1, ItemCount: 0, SumOfItem: 100,
	})
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for zero item count, got %v", err)
	}

	_, err = svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 1, SellerID: 1, ItemCount: 1, SumOfItem: -5,
	})
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for negative sum, got %v", err)
	}

	var nfErr *core.NotFoundError
	_, err = svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 999, SellerID: 1, ItemCount: 1, SumOfItem: 100,
	})
	if !errors.As(err, &nfErr) {
		t.Errorf("Expected NotFoundError for unknown client, got %v", err)
	}

	order, err := svc.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 1, SellerID: 1, ItemCount: 1, SumOfItem: 100_000,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	_, err = svc.AddPayment(ctx, order.ID, 0)
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for zero payment, got %v", err)
	}
	_, err = svc.UpdateOrder(ctx, order.ID, core.OrderUpdate{})
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for empty update, got %v", err)
	}

	if err := svc.DeleteOrder(ctx, 999); !errors.As(err, &nfErr) {
		t.Errorf("Expected NotFoundError deleting unknown order, got %v", err)
	}
}

func TestOrderService_ListAndStats(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewOrderService(pool)

	for _, in := range []core.CreateOrderInput{
		{ClientID: 1, SellerID: 1, ItemCount: 2, SumOfItem: 400_000, EveryMonthShouldPay: 100_000, Prepaid: 100_000},
		{ClientID: 2, SellerID: 1, ItemCount: 3, SumOfItem: 600_000, EveryMonthShouldPay: 150_000, Prepaid: 0},
	} {
		if _, err := svc.CreateOrder(ctx, in); err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
	}

	rows, err := svc.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ClientName == "" || r.SellerName == "" {
			t.Errorf("Expected joined names on row %d", r.ID)
		}
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.TotalItems != 5 {
		t.Errorf("Expected 5 items, got %d", st.TotalItems)
	}
	if st.TotalSum != 1_000_000 {
		t.Errorf("Expected total sum 1000000, got %d", st.TotalSum)
	}
	if st.TotalPaid != 100_000 {
		t.Errorf("Expected total paid 100000, got %d", st.TotalPaid)
	}
	if st.TotalRemaining != 900_000 {
		t.Errorf("Expected total remaining 900000, got %d", st.TotalRemaining)
	}
	if got := sellerCounter(t, pool, 1); got != 2 {
		t.Errorf("Expected seller counter 2, got %d", got)
	}
}
