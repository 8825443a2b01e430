package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

func TestConsumptionService_CreateAndList(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewConsumptionService(pool)

	c, err := svc.Create(ctx, core.OwnerBekzod, decimal.RequireFromString("150000.50"), "benzin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !c.Amount.Equal(decimal.RequireFromString("150000.50")) {
		t.Errorf("Expected amount 150000.50, got %s", c.Amount)
	}

	if _, err := svc.Create(ctx, core.OwnerHodimlar, decimal.NewFromInt(80_000), "tushlik"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	all, err := svc.ListConsumptions(ctx)
	if err != nil {
		t.Fatalf("ListConsumptions failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(all))
	}

	byOwner, err := svc.ListByOwner(ctx, core.OwnerBekzod)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(byOwner) != 1 || byOwner[0].Description != "benzin" {
		t.Errorf("Expected the benzin entry, got %+v", byOwner)
	}
}

func TestConsumptionService_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewConsumptionService(pool)

	var vErr *core.ValidationError

	_, err := svc.Create(ctx, core.ConsumptionOwner("Kimdir"), decimal.NewFromInt(100), "valid description")
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for unknown owner, got %v", err)
	}

	_, err = svc.Create(ctx, core.OwnerBekzod, decimal.Zero, "valid description")
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for zero amount, got %v", err)
	}

	_, err = svc.Create(ctx, core.OwnerBekzod, decimal.RequireFromString("10.123"), "valid description")
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for 3 decimal places, got %v", err)
	}

	_, err = svc.Create(ctx, core.OwnerBekzod, decimal.NewFromInt(100), "ab")
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for short description, got %v", err)
	}
}

func TestConsumptionService_UpdateAndDelete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewConsumptionService(pool)

	c, err := svc.Create(ctx, core.OwnerAbdulbosit, decimal.NewFromInt(50_000), "ofis uchun suv")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newAmount := decimal.RequireFromString("75000.25")
	updated, err := svc.UpdateConsumption(ctx, c.ID, core.ConsumptionUpdate{Amount: &newAmount})
	if err != nil {
		t.Fatalf("UpdateConsumption failed: %v", err)
	}
	if !updated.Amount.Equal(newAmount) {
		t.Errorf("Expected amount %s, got %s", newAmount, updated.Amount)
	}
	if updated.Owner != core.OwnerAbdulbosit {
		t.Errorf("Untouched owner changed: %s", updated.Owner)
	}

	if err := svc.DeleteConsumption(ctx, c.ID); err != nil {
		t.Fatalf("DeleteConsumption failed: %v", err)
	}

	var nfErr *core.NotFoundError
	if err := svc.DeleteConsumption(ctx, c.ID); !errors.As(err, &nfErr) {
		t.Errorf("Expected NotFoundError on second delete, got %v", err)
	}
	if _, err := svc.GetConsumption(ctx, c.ID); !errors.As(err, &nfErr) {
		t.Errorf("Expected NotFoundError after delete, got %v", err)
	}
}

func TestConsumptionService_TotalsByOwner(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewConsumptionService(pool)

	seed := []struct {
		owner  core.ConsumptionOwner
		amount string
	}{
		{core.OwnerBekzod, "100000.00"},
		{core.OwnerBekzod, "50000.00"},
		{core.OwnerHodimlar, "200000.00"},
	}
	for _, s := range seed {
		if _, err := svc.Create(ctx, s.owner, decimal.RequireFromString(s.amount), "seed entry"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	totals, err := svc.TotalsByOwner(ctx)
	if err != nil {
		t.Fatalf("TotalsByOwner failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("Expected 2 owner groups, got %d", len(totals))
	}
	// Descending by total: Hodimlar 200000 first.
	if totals[0].Owner != core.OwnerHodimlar || !totals[0].Total.Equal(decimal.RequireFromString("200000.00")) {
		t.Errorf("Expected Hodimlar 200000.00 first, got %s %s", totals[0].Owner, totals[0].Total)
	}
	if totals[1].Owner != core.OwnerBekzod || totals[1].Count != 2 {
		t.Errorf("Expected Bekzod with 2 entries, got %s %d", totals[1].Owner, totals[1].Count)
	}
}
