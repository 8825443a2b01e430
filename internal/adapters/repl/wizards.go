package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sulaymanovI/diamond-water-bot/internal/app"
)

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("  %s: ", label)
	raw, _ := reader.ReadString('\n')
	return strings.TrimSpace(raw)
}

func promptInt64(reader *bufio.Reader, label string) (int64, bool) {
	raw := prompt(reader, label)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		fmt.Printf("  Invalid number: %s\n", raw)
		return 0, false
	}
	return v, true
}

// handleNewClient runs an interactive client registration session.
func handleNewClient(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Println("Registering a new client. Leave optional fields blank.")

	req := app.RegisterClientRequest{
		FullName:       prompt(reader, "Full name"),
		Phone:          prompt(reader, "Phone"),
		PassportSerial: prompt(reader, "Passport serial"),
		Address:        prompt(reader, "Address (optional)"),
		Notes:          prompt(reader, "Notes (optional)"),
	}

	result, err := svc.RegisterClient(ctx, req)
	if err != nil {
		fmt.Printf("Error registering client: %v\n", err)
		return
	}
	fmt.Printf("Client registered (ID: %d): %s\n", result.Client.ID, result.Client.FullName)
}

// handleNewSeller runs an interactive seller registration session.
func handleNewSeller(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Println("Registering a new seller.")

	fullName := prompt(reader, "Full name")
	phone := prompt(reader, "Phone")
	passport := prompt(reader, "Passport serial")
	salary, ok := promptInt64(reader, "Monthly salary (so'm)")
	if !ok {
		return
	}
	startDate := prompt(reader, "Start date (YYYY-MM-DD)")

	result, err := svc.RegisterSeller(ctx, app.RegisterSellerRequest{
		FullName:       fullName,
		Phone:          phone,
		PassportSerial: passport,
		Salary:         salary,
		StartedJobAt:   startDate,
	})
	if err != nil {
		fmt.Printf("Error registering seller: %v\n", err)
		return
	}
	fmt.Printf("Seller registered (ID: %d): %s\n", result.Seller.ID, result.Seller.FullName)
}

// handleNewOrder runs an interactive order creation session.
func handleNewOrder(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, clientPassport, sellerPassport string) {
	fmt.Printf("Creating order: client %s, seller %s\n", clientPassport, sellerPassport)

	itemCount, ok := promptInt64(reader, "Item count")
	if !ok || itemCount == 0 {
		fmt.Println("Item count must be positive. Order not created.")
		return
	}
	sumOfItem, ok := promptInt64(reader, "Total price (so'm)")
	if !ok {
		return
	}
	monthly, ok := promptInt64(reader, "Monthly payment (so'm)")
	if !ok {
		return
	}
	prepaid, ok := promptInt64(reader, "Prepaid (so'm, 0 if none)")
	if !ok {
		return
	}

	result, err := svc.CreateOrder(ctx, app.CreateOrderRequest{
		ClientPassport: clientPassport,
		SellerPassport: sellerPassport,
		ItemCount:      int(itemCount),
		SumOfItem:      sumOfItem,
		MonthlyPayment: monthly,
		Prepaid:        prepaid,
	})
	if err != nil {
		fmt.Printf("Error creating order: %v\n", err)
		return
	}

	fmt.Printf("\nOrder created (ID: %d, Status: %s)\n", result.Order.ID, result.Order.Status)
	printOrderDetail(result.Order)
}
