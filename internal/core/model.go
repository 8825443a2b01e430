package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order states. The stored labels are the
// localized values the operators see ("Ochiq" = open, "Yopilgan" = closed,
// "Qaytarilgan" = returned) and are enforced by a DB check constraint.
type OrderStatus string

const (
	StatusOpen     OrderStatus = "Ochiq"
	StatusClosed   OrderStatus = "Yopilgan"
	StatusReturned OrderStatus = "Qaytarilgan"
)

// Valid reports whether s is one of the three known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusReturned:
		return true
	}
	return false
}

// Client is a buyer record. Identity lookup is by passport serial, which is
// unique. Location is either a geolocation pair or a legacy free-text address.
type Client struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Address        string    `json:"address,omitempty"`
	PassportSerial string    `json:"passport_serial"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Seller is a staff member who sells on installment. OrderCounter is derived:
// it is incremented and decremented only by order creation and deletion.
type Seller struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone"`
	PassportSerial string     `json:"passport_serial"`
	Salary         int64      `json:"salary_of_seller"`
	StartedJobAt   *time.Time `json:"started_job_at,omitempty"`
	OrderCounter   int        `json:"order_counter"`
}

// ConsumptionOwner is the fixed staff enumeration expense entries are
// attributed to.
type ConsumptionOwner string

const (
	OwnerMaxmudhoja ConsumptionOwner = "Maxmudho'ja"
	OwnerAbdulbosit ConsumptionOwner = "Abdulbosit"
	OwnerBekzod     ConsumptionOwner = "Bekzod"
	OwnerOgabek     ConsumptionOwner = "Og'abek"
	OwnerHodimlar   ConsumptionOwner = "Hodimlar"
)

// ConsumptionOwners lists the valid owners in display order.
var ConsumptionOwners = []ConsumptionOwner{
	OwnerMaxmudhoja, OwnerAbdulbosit, OwnerBekzod, OwnerOgabek, OwnerHodimlar,
}

func (o ConsumptionOwner) Valid() bool {
	for _, v := range ConsumptionOwners {
		if o == v {
			return true
		}
	}
	return false
}

// Consumption is an operating-expense entry. Unlike order money, which is
// whole so'm, consumption amounts carry 2 decimal places.
type Consumption struct {
	ID          int64            `json:"id"`
	Owner       ConsumptionOwner `json:"consumption_owner"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OwnerTotal is one row of the per-owner expense aggregate.
type OwnerTotal struct {
	Owner ConsumptionOwner `json:"owner"`
	Total decimal.Decimal  `json:"total"`
	Count int              `json:"count"`
}
