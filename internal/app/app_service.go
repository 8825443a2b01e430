package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sulaymanovI/diamond-water-bot/internal/ai"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
	"github.com/sulaymanovI/diamond-water-bot/internal/export"
)

type appService struct {
	orders       core.OrderService
	clients      core.ClientService
	sellers      core.SellerService
	consumptions core.ConsumptionService
	agent        *ai.Agent
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	orders core.OrderService,
	clients core.ClientService,
	sellers core.SellerService,
	consumptions core.ConsumptionService,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		orders:       orders,
		clients:      clients,
		sellers:      sellers,
		consumptions: consumptions,
		agent:        agent,
	}
}

// ── Clients ──────────────────────────────────────────────────────────────────

func (s *appService) RegisterClient(ctx context.Context, req RegisterClientRequest) (*ClientResult, error) {
	c, err := s.clients.Register(ctx, core.RegisterClientInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		PassportSerial: req.PassportSerial,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Address:        req.Address,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: c}, nil
}

func (s *appService) FindClientByPassport(ctx context.Context, passportSerial string) (*ClientResult, error) {
	c, err := s.clients.GetByPassport(ctx, passportSerial)
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: c}, nil
}

func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) UpdateClient(ctx context.Context, clientID int64, upd core.ClientUpdate) (*ClientResult, error) {
	c, err := s.clients.UpdateClient(ctx, clientID, upd)
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: c}, nil
}

// ── Sellers ──────────────────────────────────────────────────────────────────

func (s *appService) RegisterSeller(ctx context.Context, req RegisterSellerRequest) (*SellerResult, error) {
	sl, err := s.sellers.Register(ctx, core.RegisterSellerInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		PassportSerial: req.PassportSerial,
		Salary:         req.Salary,
		StartedJobAt:   req.StartedJobAt,
	})
	if err != nil {
		return nil, err
	}
	return &SellerResult{Seller: sl}, nil
}

func (s *appService) FindSellerByPassport(ctx context.Context, passportSerial string) (*SellerResult, error) {
	sl, err := s.sellers.GetByPassport(ctx, passportSerial)
	if err != nil {
		return nil, err
	}
	return &SellerResult{Seller: sl}, nil
}

func (s *appService) ListSellers(ctx context.Context) (*SellerListResult, error) {
	sellers, err := s.sellers.ListSellers(ctx)
	if err != nil {
		return nil, err
	}
	return &SellerListResult{Sellers: sellers}, nil
}

func (s *appService) UpdateSeller(ctx context.Context, sellerID int64, upd core.SellerUpdate) (*SellerResult, error) {
	sl, err := s.sellers.UpdateSeller(ctx, sellerID, upd)
	if err != nil {
		return nil, err
	}
	return &SellerResult{Seller: sl}, nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	client, err := s.clients.GetByPassport(ctx, req.ClientPassport)
	if err != nil {
		return nil, err
	}
	seller, err := s.sellers.GetByPassport(ctx, req.SellerPassport)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.CreateOrder(ctx, core.CreateOrderInput{
		ClientID:            client.ID,
		SellerID:            seller.ID,
		ItemCount:           req.ItemCount,
		SumOfItem:           req.SumOfItem,
		EveryMonthShouldPay: req.MonthlyPayment,
		Prepaid:             req.Prepaid,
	})
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: o}, nil
}

func (s *appService) AddPayment(ctx context.Context, orderID, amount int64) (*OrderResult, error) {
	o, err := s.orders.AddPayment(ctx, orderID, amount)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: o}, nil
}

func (s *appService) UpdateOrder(ctx context.Context, orderID int64, upd core.OrderUpdate) (*OrderResult, error) {
	o, err := s.orders.UpdateOrder(ctx, orderID, upd)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: o}, nil
}

func (s *appService) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.orders.DeleteOrder(ctx, orderID)
}

func (s *appService) GetOrder(ctx context.Context, orderID int64) (*OrderResult, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: o}, nil
}

func (s *appService) ListOrders(ctx context.Context) (*OrderListResult, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) OrderStats(ctx context.Context) (*core.OrderStats, error) {
	return s.orders.Stats(ctx)
}

// ── Consumptions ─────────────────────────────────────────────────────────────

func (s *appService) AddConsumption(ctx context.Context, req AddConsumptionRequest) (*ConsumptionResult, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, &core.ValidationError{Msg: fmt.Sprintf("invalid amount %q: expected a decimal number", req.Amount)}
	}
	c, err := s.consumptions.Create(ctx, core.ConsumptionOwner(req.Owner), amount, req.Description)
	if err != nil {
		return nil, err
	}
	return &ConsumptionResult{Consumption: c}, nil
}

func (s *appService) ListConsumptions(ctx context.Context) (*ConsumptionListResult, error) {
	items, err := s.consumptions.ListConsumptions(ctx)
	if err != nil {
		return nil, err
	}
	return &ConsumptionListResult{Consumptions: items}, nil
}

func (s *appService) UpdateConsumption(ctx context.Context, id int64, upd core.ConsumptionUpdate) (*ConsumptionResult, error) {
	c, err := s.consumptions.UpdateConsumption(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return &ConsumptionResult{Consumption: c}, nil
}

func (s *appService) DeleteConsumption(ctx context.Context, id int64) error {
	return s.consumptions.DeleteConsumption(ctx, id)
}

func (s *appService) ConsumptionTotals(ctx context.Context) (*OwnerTotalsResult, error) {
	totals, err := s.consumptions.TotalsByOwner(ctx)
	if err != nil {
		return nil, err
	}
	return &OwnerTotalsResult{Totals: totals}, nil
}

// ── Exports ──────────────────────────────────────────────────────────────────

func (s *appService) ExportOrders(ctx context.Context) (*ExportResult, error) {
	rows, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	data, err := export.OrdersWorkbook(rows)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: export.OrdersFilename(time.Now()), Data: data}, nil
}

func (s *appService) ExportSellers(ctx context.Context) (*ExportResult, error) {
	sellers, err := s.sellers.ListSellers(ctx)
	if err != nil {
		return nil, err
	}
	data, err := export.SellersWorkbook(sellers)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: export.SellersFilename(time.Now()), Data: data}, nil
}

func (s *appService) ExportConsumptions(ctx context.Context) (*ExportResult, error) {
	items, err := s.consumptions.ListConsumptions(ctx)
	if err != nil {
		return nil, err
	}
	data, err := export.ConsumptionsWorkbook(items)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: export.ConsumptionsFilename(time.Now()), Data: data}, nil
}
