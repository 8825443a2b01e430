package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ConsumptionUpdate is the typed update set for an expense entry.
type ConsumptionUpdate struct {
	Owner       *ConsumptionOwner
	Amount      *decimal.Decimal
	Description *string
}

// ConsumptionService manages the operating-expense ledger. It has no relation
// to orders; entries are aggregable per owner.
type ConsumptionService interface {
	Create(ctx context.Context, owner ConsumptionOwner, amount decimal.Decimal, description string) (*Consumption, error)
	GetConsumption(ctx context.Context, id int64) (*Consumption, error)
	ListConsumptions(ctx context.Context) ([]Consumption, error)
	ListByOwner(ctx context.Context, owner ConsumptionOwner) ([]Consumption, error)
	UpdateConsumption(ctx context.Context, id int64, upd ConsumptionUpdate) (*Consumption, error)
	DeleteConsumption(ctx context.Context, id int64) error
	// TotalsByOwner sums expenses per staff member, descending by total.
	TotalsByOwner(ctx context.Context) ([]OwnerTotal, error)
}

type consumptionService struct {
	pool *pgxpool.Pool
}

func NewConsumptionService(pool *pgxpool.Pool) ConsumptionService {
	return &consumptionService{pool: pool}
}

const consumptionColumns = `id, consumption_owner, amount, description, created_at`

func scanConsumption(row pgx.Row) (*Consumption, error) {
	var c Consumption
	if err := row.Scan(&c.ID, &c.Owner, &c.Amount, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func validateConsumption(owner ConsumptionOwner, amount decimal.Decimal, description string) error {
	if !owner.Valid() {
		return validationf("unknown consumption owner %q", string(owner))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return validationf("consumption amount must be positive, got %s", amount)
	}
	if amount.Exponent() < -2 {
		return validationf("consumption amount carries at most 2 decimal places, got %s", amount)
	}
	if len(description) < 3 {
		return validationf("consumption description must be at least 3 characters")
	}
	return nil
}

func (s *consumptionService) Create(ctx context.Context, owner ConsumptionOwner, amount decimal.Decimal, description string) (*Consumption, error) {
	if err := validateConsumption(owner, amount, description); err != nil {
		return nil, err
	}

	c, err := scanConsumption(s.pool.QueryRow(ctx, `
		INSERT INTO consumptions (consumption_owner, amount, description)
		VALUES ($1, $2, $3)
		RETURNING `+consumptionColumns,
		owner, amount, description))
	if err != nil {
		return nil, fmt.Errorf("failed to create consumption: %w", err)
	}
	return c, nil
}

func (s *consumptionService) GetConsumption(ctx context.Context, id int64) (*Consumption, error) {
	c, err := scanConsumption(s.pool.QueryRow(ctx,
		"SELECT "+consumptionColumns+" FROM consumptions WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("consumption", id)
		}
		return nil, fmt.Errorf("failed to fetch consumption %d: %w", id, err)
	}
	return c, nil
}

func (s *consumptionService) ListConsumptions(ctx context.Context) ([]Consumption, error) {
	return s.list(ctx,
		"SELECT "+consumptionColumns+" FROM consumptions ORDER BY created_at DESC")
}

func (s *consumptionService) ListByOwner(ctx context.Context, owner ConsumptionOwner) ([]Consumption, error) {
	if !owner.Valid() {
		return nil, validationf("unknown consumption owner %q", string(owner))
	}
	return s.list(ctx,
		"SELECT "+consumptionColumns+" FROM consumptions WHERE consumption_owner = $1 ORDER BY created_at DESC",
		owner)
}

func (s *consumptionService) list(ctx context.Context, query string, args ...any) ([]Consumption, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query consumptions: %w", err)
	}
	defer rows.Close()

	var out []Consumption
	for rows.Next() {
		c, err := scanConsumption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consumption: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *consumptionService) UpdateConsumption(ctx context.Context, id int64, upd ConsumptionUpdate) (*Consumption, error) {
	if upd.Owner == nil && upd.Amount == nil && upd.Description == nil {
		return nil, validationf("no editable fields supplied for consumption update")
	}
	if upd.Owner != nil && !upd.Owner.Valid() {
		return nil, validationf("unknown consumption owner %q", string(*upd.Owner))
	}
	if upd.Amount != nil {
		if upd.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, validationf("consumption amount must be positive, got %s", upd.Amount)
		}
		if upd.Amount.Exponent() < -2 {
			return nil, validationf("consumption amount carries at most 2 decimal places, got %s", upd.Amount)
		}
	}
	if upd.Description != nil && len(*upd.Description) < 3 {
		return nil, validationf("consumption description must be at least 3 characters")
	}

	set := "UPDATE consumptions SET "
	var args []any
	add := func(col string, val any) {
		if len(args) > 0 {
			set += ", "
		}
		args = append(args, val)
		set += fmt.Sprintf("%s = $%d", col, len(args))
	}
	if upd.Owner != nil {
		add("consumption_owner", *upd.Owner)
	}
	if upd.Amount != nil {
		add("amount", *upd.Amount)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	args = append(args, id)
	set += fmt.Sprintf(" WHERE id = $%d RETURNING id", len(args))

	var got int64
	if err := s.pool.QueryRow(ctx, set, args...).Scan(&got); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("consumption", id)
		}
		return nil, fmt.Errorf("failed to update consumption %d: %w", id, err)
	}
	return s.GetConsumption(ctx, id)
}

func (s *consumptionService) DeleteConsumption(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM consumptions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete consumption %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("consumption", id)
	}
	return nil
}

func (s *consumptionService) TotalsByOwner(ctx context.Context) ([]OwnerTotal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT consumption_owner, COALESCE(SUM(amount), 0), COUNT(*)
		FROM consumptions
		GROUP BY consumption_owner
		ORDER BY SUM(amount) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate consumptions: %w", err)
	}
	defer rows.Close()

	var out []OwnerTotal
	for rows.Next() {
		var t OwnerTotal
		if err := rows.Scan(&t.Owner, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan owner total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
