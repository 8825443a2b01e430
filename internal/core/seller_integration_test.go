package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

func TestSellerService_RegisterAndLookup(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewSellerService(pool)

	sl, err := svc.Register(ctx, core.RegisterSellerInput{
		FullName:       "Og'abek Nazarov",
		Phone:          "+998911223344",
		PassportSerial: "AG5554443",
		Salary:         4_000_000,
		StartedJobAt:   "2025-03-15",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if sl.OrderCounter != 0 {
		t.Errorf("Expected fresh seller counter 0, got %d", sl.OrderCounter)
	}
	if sl.StartedJobAt == nil || sl.StartedJobAt.Format("2006-01-02") != "2025-03-15" {
		t.Errorf("Expected start date stored, got %v", sl.StartedJobAt)
	}

	got, err := svc.GetByPassport(ctx, "AG5554443")
	if err != nil {
		t.Fatalf("GetByPassport failed: %v", err)
	}
	if got.ID != sl.ID {
		t.Errorf("Lookup mismatch: got %d, want %d", got.ID, sl.ID)
	}
}

func TestSellerService_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewSellerService(pool)

	var vErr *core.ValidationError
	_, err := svc.Register(ctx, core.RegisterSellerInput{
		FullName: "Bad Date", PassportSerial: "AH0001112",
		Salary: 100, StartedJobAt: "15.03.2025",
	})
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for bad date, got %v", err)
	}

	_, err = svc.Register(ctx, core.RegisterSellerInput{
		FullName: "Negative Salary", PassportSerial: "AH0001113",
		Salary: -1, StartedJobAt: "2025-01-01",
	})
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for negative salary, got %v", err)
	}

	// AD1112223 is seeded.
	var dupErr *core.DuplicateError
	_, err = svc.Register(ctx, core.RegisterSellerInput{
		FullName: "Duplicate", PassportSerial: "AD1112223",
		Salary: 100, StartedJobAt: "2025-01-01",
	})
	if !errors.As(err, &dupErr) {
		t.Errorf("Expected DuplicateError, got %v", err)
	}
}

func TestSellerService_UpdateLeavesCounterAlone(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	sellers := core.NewSellerService(pool)
	orders := core.NewOrderService(pool)

	// Put the counter at 1 through an order.
	if _, err := orders.CreateOrder(ctx, core.CreateOrderInput{
		ClientID: 1, SellerID: 1, ItemCount: 1, SumOfItem: 100_000,
	}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	salary := int64(5_000_000)
	date := "2024-06-01"
	sl, err := sellers.UpdateSeller(ctx, 1, core.SellerUpdate{Salary: &salary, StartedJobAt: &date})
	if err != nil {
		t.Fatalf("UpdateSeller failed: %v", err)
	}
	if sl.Salary != salary {
		t.Errorf("Expected salary %d, got %d", salary, sl.Salary)
	}
	if sl.OrderCounter != 1 {
		t.Errorf("Expected counter untouched at 1, got %d", sl.OrderCounter)
	}
}
