package app

// RegisterClientRequest is the input for registering a new client.
type RegisterClientRequest struct {
	FullName       string
	Phone          string
	PassportSerial string
	Latitude       *float64
	Longitude      *float64
	Address        string
	Notes          string
}

// RegisterSellerRequest is the input for registering a new seller.
type RegisterSellerRequest struct {
	FullName       string
	Phone          string
	PassportSerial string
	Salary         int64
	StartedJobAt   string // YYYY-MM-DD
}

// CreateOrderRequest is the input for creating a new installment order.
// Both parties are referenced by passport serial, the conversational flow's
// identity key.
type CreateOrderRequest struct {
	ClientPassport string
	SellerPassport string
	ItemCount      int
	SumOfItem      int64
	MonthlyPayment int64
	Prepaid        int64
}

// AddConsumptionRequest is the input for logging an operating expense.
type AddConsumptionRequest struct {
	Owner       string
	Amount      string // decimal string, up to 2 fraction digits
	Description string
}
