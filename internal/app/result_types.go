package app

import (
	"github.com/sulaymanovI/diamond-water-bot/internal/ai"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

// ClientResult is returned by client operations.
type ClientResult struct {
	Client *core.Client
}

// ClientListResult is returned by ListClients.
type ClientListResult struct {
	Clients []core.Client
}

// SellerResult is returned by seller operations.
type SellerResult struct {
	Seller *core.Seller
}

// SellerListResult is returned by ListSellers.
type SellerListResult struct {
	Sellers []core.Seller
}

// OrderResult is returned by order lifecycle operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.OrderRow
}

// ConsumptionResult is returned by expense operations.
type ConsumptionResult struct {
	Consumption *core.Consumption
}

// ConsumptionListResult is returned by ListConsumptions.
type ConsumptionListResult struct {
	Consumptions []core.Consumption
}

// OwnerTotalsResult is returned by ConsumptionTotals.
type OwnerTotalsResult struct {
	Totals []core.OwnerTotal
}

// ExportResult carries a rendered spreadsheet ready to send as a document.
type ExportResult struct {
	Filename string
	Data     []byte
}

// ChatResult is returned by Interpret. Exactly one of Answer, Clarification
// or Pending is meaningful: Answer for executed read actions, Clarification
// when the interpreter needs more detail, Pending for a write action awaiting
// operator confirmation.
type ChatResult struct {
	Answer        string
	Clarification string
	Pending       *PendingAction
}

// PendingAction is a proposed write action held until the operator confirms.
type PendingAction struct {
	Name    string
	Summary string
	Args    ai.ActionArgs
}
