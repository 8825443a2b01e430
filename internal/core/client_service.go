package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterClientInput carries the fields collected by the new-client flow.
// Either the geolocation pair or a free-text address may be supplied.
type RegisterClientInput struct {
	FullName       string
	Phone          string
	PassportSerial string
	Latitude       *float64
	Longitude      *float64
	Address        string
	Notes          string
}

// ClientUpdate is the typed update set for a client. Nil fields are untouched.
type ClientUpdate struct {
	FullName *string
	Phone    *string
	Address  *string
	Notes    *string
}

// ClientService manages buyer master records. Passport serial is the identity
// key: registration rejects duplicates before touching the store.
type ClientService interface {
	Register(ctx context.Context, in RegisterClientInput) (*Client, error)
	GetByPassport(ctx context.Context, passportSerial string) (*Client, error)
	GetClient(ctx context.Context, clientID int64) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, clientID int64, upd ClientUpdate) (*Client, error)
}

type clientService struct {
	pool *pgxpool.Pool
}

func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

const clientColumns = `id, full_name, phone, latitude, longitude,
	COALESCE(address, ''), COALESCE(passport_serial, ''), COALESCE(notes, ''), created_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Latitude, &c.Longitude,
		&c.Address, &c.PassportSerial, &c.Notes, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *clientService) Register(ctx context.Context, in RegisterClientInput) (*Client, error) {
	if in.FullName == "" {
		return nil, validationf("client full name is required")
	}
	if in.PassportSerial == "" {
		return nil, validationf("client passport serial is required")
	}

	var existingID int64
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM clients WHERE passport_serial = $1", in.PassportSerial,
	).Scan(&existingID)
	switch {
	case err == nil:
		return nil, &DuplicateError{Entity: "client", Field: "passport serial", Value: in.PassportSerial}
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to check passport serial: %w", err)
	}

	c, err := scanClient(s.pool.QueryRow(ctx, `
		INSERT INTO clients (full_name, phone, passport_serial, latitude, longitude, address, notes)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING `+clientColumns,
		in.FullName, in.Phone, in.PassportSerial, in.Latitude, in.Longitude, in.Address, in.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to register client: %w", err)
	}
	return c, nil
}

func (s *clientService) GetByPassport(ctx context.Context, passportSerial string) (*Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE passport_serial = $1", passportSerial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "client"}
		}
		return nil, fmt.Errorf("failed to fetch client by passport: %w", err)
	}
	return c, nil
}

func (s *clientService) GetClient(ctx context.Context, clientID int64) (*Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id = $1", clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("client", clientID)
		}
		return nil, fmt.Errorf("failed to fetch client %d: %w", clientID, err)
	}
	return c, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY full_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *clientService) UpdateClient(ctx context.Context, clientID int64, upd ClientUpdate) (*Client, error) {
	if upd.FullName == nil && upd.Phone == nil && upd.Address == nil && upd.Notes == nil {
		return nil, validationf("no editable fields supplied for client update")
	}
	if upd.FullName != nil && *upd.FullName == "" {
		return nil, validationf("client full name cannot be empty")
	}

	set := "UPDATE clients SET "
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
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	args = append(args, clientID)
	set += fmt.Sprintf(" WHERE id = $%d RETURNING id", len(args))

	var id int64
	if err := s.pool.QueryRow(ctx, set, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("client", clientID)
		}
		return nil, fmt.Errorf("failed to update client %d: %w", clientID, err)
	}
	return s.GetClient(ctx, clientID)
}
