package app

import (
	"context"

	"github.com/sulaymanovI/diamond-water-bot/internal/ai"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

// ApplicationService is the single interface all conversational adapters
// (Telegram, REPL) call. It decouples presentation from business logic:
// implementations take validated primitives or typed requests and return
// result structs, never formatted user-facing text for the UI paths.
type ApplicationService interface {
	// Clients
	RegisterClient(ctx context.Context, req RegisterClientRequest) (*ClientResult, error)
	FindClientByPassport(ctx context.Context, passportSerial string) (*ClientResult, error)
	ListClients(ctx context.Context) (*ClientListResult, error)
	UpdateClient(ctx context.Context, clientID int64, upd core.ClientUpdate) (*ClientResult, error)

	// Sellers
	RegisterSeller(ctx context.Context, req RegisterSellerRequest) (*SellerResult, error)
	FindSellerByPassport(ctx context.Context, passportSerial string) (*SellerResult, error)
	ListSellers(ctx context.Context) (*SellerListResult, error)
	UpdateSeller(ctx context.Context, sellerID int64, upd core.SellerUpdate) (*SellerResult, error)

	// Orders
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)
	// AddPayment records a monthly installment; the only way total_paid grows.
	AddPayment(ctx context.Context, orderID, amount int64) (*OrderResult, error)
	UpdateOrder(ctx context.Context, orderID int64, upd core.OrderUpdate) (*OrderResult, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	GetOrder(ctx context.Context, orderID int64) (*OrderResult, error)
	ListOrders(ctx context.Context) (*OrderListResult, error)
	OrderStats(ctx context.Context) (*core.OrderStats, error)

	// Consumptions
	AddConsumption(ctx context.Context, req AddConsumptionRequest) (*ConsumptionResult, error)
	ListConsumptions(ctx context.Context) (*ConsumptionListResult, error)
	UpdateConsumption(ctx context.Context, id int64, upd core.ConsumptionUpdate) (*ConsumptionResult, error)
	DeleteConsumption(ctx context.Context, id int64) error
	ConsumptionTotals(ctx context.Context) (*OwnerTotalsResult, error)

	// Exports
	ExportOrders(ctx context.Context) (*ExportResult, error)
	ExportSellers(ctx context.Context) (*ExportResult, error)
	ExportConsumptions(ctx context.Context) (*ExportResult, error)

	// Interpret routes a free-text operator message through the interpreter.
	// Read actions execute immediately; write actions come back as a
	// PendingAction for confirmation.
	Interpret(ctx context.Context, message string) (*ChatResult, error)

	// ExecuteAction runs a previously proposed write action after the
	// operator confirmed it. Returns a short result line.
	ExecuteAction(ctx context.Context, name string, args ai.ActionArgs) (string, error)
}
