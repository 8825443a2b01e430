package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterSellerInput carries the fields collected by the new-seller flow.
// StartedJobAt is the raw operator input and must be YYYY-MM-DD.
type RegisterSellerInput struct {
	FullName       string
	Phone          string
	PassportSerial string
	Salary         int64
	StartedJobAt   string
}

// SellerUpdate is the typed update set for a seller. Nil fields are untouched.
// order_counter is deliberately absent: only order creation and deletion move it.
type SellerUpdate struct {
	FullName       *string
	Phone          *string
	PassportSerial *string
	Salary         *int64
	StartedJobAt   *string // YYYY-MM-DD
}

type SellerService interface {
	Register(ctx context.Context, in RegisterSellerInput) (*Seller, error)
	GetByPassport(ctx context.Context, passportSerial string) (*Seller, error)
	GetSeller(ctx context.Context, sellerID int64) (*Seller, error)
	ListSellers(ctx context.Context) ([]Seller, error)
	UpdateSeller(ctx context.Context, sellerID int64, upd SellerUpdate) (*Seller, error)
}

type sellerService struct {
	pool *pgxpool.Pool
}

func NewSellerService(pool *pgxpool.Pool) SellerService {
	return &sellerService{pool: pool}
}

const sellerColumns = `id, full_name, phone, COALESCE(passport_serial, ''),
	COALESCE(salary_of_seller, 0), started_job_at, order_counter`

func scanSeller(row pgx.Row) (*Seller, error) {
	var sl Seller
	err := row.Scan(
		&sl.ID, &sl.FullName, &sl.Phone, &sl.PassportSerial,
		&sl.Salary, &sl.StartedJobAt, &sl.OrderCounter,
	)
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

func parseJobDate(raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, validationf("invalid start date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

func (s *sellerService) Register(ctx context.Context, in RegisterSellerInput) (*Seller, error) {
	if in.FullName == "" {
		return nil, validationf("seller full name is required")
	}
	if in.PassportSerial == "" {
		return nil, validationf("seller passport serial is required")
	}
	if in.Salary < 0 {
		return nil, validationf("seller salary must be non-negative")
	}
	started, err := parseJobDate(in.StartedJobAt)
	if err != nil {
		return nil, err
	}

	var existingID int64
	err = s.pool.QueryRow(ctx,
		"SELECT id FROM sellers WHERE passport_serial = $1", in.PassportSerial,
	).Scan(&existingID)
	switch {
	case err == nil:
		return nil, &DuplicateError{Entity: "seller", Field: "passport serial", Value: in.PassportSerial}
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to check passport serial: %w", err)
	}

	sl, err := scanSeller(s.pool.QueryRow(ctx, `
		INSERT INTO sellers (full_name, phone, passport_serial, salary_of_seller, started_job_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+sellerColumns,
		in.FullName, in.Phone, in.PassportSerial, in.Salary, started))
	if err != nil {
		return nil, fmt.Errorf("failed to register seller: %w", err)
	}
	return sl, nil
}

func (s *sellerService) GetByPassport(ctx context.Context, passportSerial string) (*Seller, error) {
	sl, err := scanSeller(s.pool.QueryRow(ctx,
		"SELECT "+sellerColumns+" FROM sellers WHERE passport_serial = $1", passportSerial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "seller"}
		}
		return nil, fmt.Errorf("failed to fetch seller by passport: %w", err)
	}
	return sl, nil
}

func (s *sellerService) GetSeller(ctx context.Context, sellerID int64) (*Seller, error) {
	sl, err := scanSeller(s.pool.QueryRow(ctx,
		"SELECT "+sellerColumns+" FROM sellers WHERE id = $1", sellerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("seller", sellerID)
		}
		return nil, fmt.Errorf("failed to fetch seller %d: %w", sellerID, err)
	}
	return sl, nil
}

func (s *sellerService) ListSellers(ctx context.Context) ([]Seller, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+sellerColumns+" FROM sellers ORDER BY full_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query sellers: %w", err)
	}
	defer rows.Close()

	var out []Seller
	for rows.Next() {
		sl, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seller: %w", err)
		}
		out = append(out, *sl)
	}
	return out, rows.Err()
}

func (s *sellerService) UpdateSeller(ctx context.Context, sellerID int64, upd SellerUpdate) (*Seller, error) {
	if upd.FullName == nil && upd.Phone == nil && upd.PassportSerial == nil &&
		upd.Salary == nil && upd.StartedJobAt == nil {
		return nil, validationf("no editable fields supplied for seller update")
	}
	if upd.FullName != nil && *upd.FullName == "" {
		return nil, validationf("seller full name cannot be empty")
	}
	if upd.Salary != nil && *upd.Salary < 0 {
		return nil, validationf("seller salary must be non-negative")
	}

	set := "UPDATE sellers SET "
	var args []any
	add := func(col string, val any) {
		if len(args) > 0 {
			set += ", "
		}
		args = append(args, val)
		set += fmt.Sprintf("%s = $%d", col, len(args))
	}
	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.PassportSerial != nil {
		add("passport_serial", *upd.PassportSerial)
	}
	if upd.Salary != nil {
		add("salary_of_seller", *upd.Salary)
	}
	if upd.StartedJobAt != nil {
		started, err := parseJobDate(*upd.StartedJobAt)
		if err != nil {
			return nil, err
		}
		add("started_job_at", started)
	}
	args = append(args, sellerID)
	set += fmt.Sprintf(" WHERE id = $%d RETURNING id", len(args))

	var id int64
	if err := s.pool.QueryRow(ctx, set, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("seller", sellerID)
		}
		return nil, fmt.Errorf("failed to update seller %d: %w", sellerID, err)
	}
	return s.GetSeller(ctx, sellerID)
}
