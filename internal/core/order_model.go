package core

import "time"

// Order is an installment sale linking one client and one seller.
//
// Financial invariant, re-established by every mutating operation:
//
//	total_paid       == prepaid + sum(monthly payments applied)
//	remaining_amount == max(0, sum_of_item - total_paid)
//
// When remaining_amount reaches 0 the order closes. All amounts are whole
// so'm — there is no sub-unit currency.
type Order struct {
	ID                   int64       `json:"id"`
	ClientID             int64       `json:"client_id"`
	SellerID             int64       `json:"seller_id"`
	ItemCount            int         `json:"item_count"`
	SumOfItem            int64       `json:"sum_of_item"`
	EveryMonthShouldPay  int64       `json:"every_month_should_pay"`
	Prepaid              int64       `json:"prepaid"`
	TotalPaid            int64       `json:"total_paid"`
	RemainingAmount      int64       `json:"remaining_amount"`
	Status               OrderStatus `json:"order_status"`
	LastNotificationSent *time.Time  `json:"last_notification_sent,omitempty"`
	NotificationCount    int         `json:"notification_count"`
	CreatedAt            time.Time   `json:"created_at"`

	Client *Client `json:"client,omitempty"` // attached by GetOrder
}

// OrderRow is one row of the joined order listing, carrying the display
// fields of the related client and seller.
type OrderRow struct {
	Order
	ClientName     string `json:"client_name"`
	ClientPhone    string `json:"client_phone"`
	ClientPassport string `json:"client_passport"`
	SellerName     string `json:"seller_name"`
}

// RemainingAfter returns the outstanding balance for a total price and an
// amount already paid, clamped at zero. Overpayment is absorbed: there is no
// credit-balance concept.
func RemainingAfter(sumOfItem, totalPaid int64) int64 {
	if r := sumOfItem - totalPaid; r > 0 {
		return r
	}
	return 0
}

// NextStatus applies the forced-close rule: an Open order whose remaining
// balance hits zero becomes Closed. A manual Returned (or already Closed)
// status is preserved — zeroing the balance of a returned order does not
// reopen or close it.
func NextStatus(current OrderStatus, remaining int64) OrderStatus {
	if remaining == 0 && current == StatusOpen {
		return StatusClosed
	}
	return current
}

// OrderUpdate is the typed, allow-listed update set for an order. Nil fields
// are left untouched. Any other column is not editable through the
// conversational flow.
type OrderUpdate struct {
	ItemCount           *int
	SumOfItem           *int64
	EveryMonthShouldPay *int64
	Prepaid             *int64
	Status              *OrderStatus
}

// Empty reports whether the update carries no fields at all.
func (u OrderUpdate) Empty() bool {
	return u.ItemCount == nil && u.SumOfItem == nil &&
		u.EveryMonthShouldPay == nil && u.Prepaid == nil && u.Status == nil
}

// OrderStats is the aggregate across all orders, used by the monthly report.
type OrderStats struct {
	TotalItems     int64 `json:"total_items"`
	TotalPaid      int64 `json:"total_paid"`
	TotalRemaining int64 `json:"total_remaining"`
	TotalSum       int64 `json:"total_sum"`
}
