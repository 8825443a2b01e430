package repl

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sulaymanovI/diamond-water-bot/internal/app"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

func printOrders(result *app.OrderListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 86))
	fmt.Println("  INSTALLMENT ORDERS")
	fmt.Println(strings.Repeat("=", 86))
	if len(result.Orders) == 0 {
		fmt.Println("  No orders found.")
		fmt.Println(strings.Repeat("=", 86))
		return
	}
	fmt.Printf("  %-5s %-24s %12s %12s %12s %-12s %s\n", "ID", "CLIENT", "TOTAL", "PAID", "REMAINING", "STATUS", "DATE")
	fmt.Println(strings.Repeat("-", 86))
	for _, o := range result.Orders {
		fmt.Printf("  %-5d %-24s %12d %12d %12d %-12s %s\n",
			o.ID, o.ClientName, o.SumOfItem, o.TotalPaid, o.RemainingAmount, o.Status,
			o.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 86))
}

func printOrderDetail(o *core.Order) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("  Order:        #%d\n", o.ID)
	if o.Client != nil {
		fmt.Printf("  Client:       %s (%s)\n", o.Client.FullName, o.Client.Phone)
		fmt.Printf("  Passport:     %s\n", o.Client.PassportSerial)
	}
	fmt.Printf("  Items:        %d\n", o.ItemCount)
	fmt.Printf("  Total:        %d so'm\n", o.SumOfItem)
	fmt.Printf("  Monthly:      %d so'm\n", o.EveryMonthShouldPay)
	fmt.Printf("  Prepaid:      %d so'm\n", o.Prepaid)
	fmt.Printf("  Paid:         %d so'm\n", o.TotalPaid)
	fmt.Printf("  Remaining:    %d so'm\n", o.RemainingAmount)
	fmt.Printf("  Status:       %s\n", o.Status)
	fmt.Printf("  Reminders:    %d\n", o.NotificationCount)
	fmt.Printf("  Created:      %s\n", o.CreatedAt.Format("2006-01-02"))
	fmt.Println(strings.Repeat("-", 60))
}

func printClients(result *app.ClientListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Println("  CLIENTS")
	fmt.Println(strings.Repeat("=", 76))
	if len(result.Clients) == 0 {
		fmt.Println("  No clients found.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-5s %-26s %-15s %-12s %s\n", "ID", "NAME", "PHONE", "PASSPORT", "REGISTERED")
	fmt.Println(strings.Repeat("-", 76))
	for _, c := range result.Clients {
		fmt.Printf("  %-5d %-26s %-15s %-12s %s\n",
			c.ID, c.FullName, c.Phone, c.PassportSerial, c.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 76))
}

func printSellers(result *app.SellerListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Println("  SELLERS")
	fmt.Println(strings.Repeat("=", 76))
	if len(result.Sellers) == 0 {
		fmt.Println("  No sellers found.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-5s %-26s %-15s %12s %8s\n", "ID", "NAME", "PHONE", "SALARY", "ORDERS")
	fmt.Println(strings.Repeat("-", 76))
	for _, s := range result.Sellers {
		fmt.Printf("  %-5d %-26s %-15s %12d %8d\n",
			s.ID, s.FullName, s.Phone, s.Salary, s.OrderCounter)
	}
	fmt.Println(strings.Repeat("=", 76))
}

func printConsumptions(result *app.ConsumptionListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("  EXPENSES")
	fmt.Println(strings.Repeat("=", 80))
	if len(result.Consumptions) == 0 {
		fmt.Println("  No expense entries found.")
		fmt.Println(strings.Repeat("=", 80))
		return
	}
	fmt.Printf("  %-5s %-14s %14s  %-30s %s\n", "ID", "OWNER", "AMOUNT", "DESCRIPTION", "DATE")
	fmt.Println(strings.Repeat("-", 80))
	total := decimal.Zero
	for _, c := range result.Consumptions {
		fmt.Printf("  %-5d %-14s %14s  %-30s %s\n",
			c.ID, c.Owner, c.Amount.StringFixed(2), c.Description, c.CreatedAt.Format("2006-01-02"))
		total = total.Add(c.Amount)
	}
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("  %-20s %14s\n", "TOTAL", total.StringFixed(2))
	fmt.Println(strings.Repeat("=", 80))
}

func printOwnerTotals(result *app.OwnerTotalsResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("  EXPENSE TOTALS PER OWNER")
	fmt.Println(strings.Repeat("=", 50))
	if len(result.Totals) == 0 {
		fmt.Println("  No expense entries found.")
		fmt.Println(strings.Repeat("=", 50))
		return
	}
	fmt.Printf("  %-16s %14s %8s\n", "OWNER", "TOTAL", "ENTRIES")
	fmt.Println(strings.Repeat("-", 50))
	for _, t := range result.Totals {
		fmt.Printf("  %-16s %14s %8d\n", t.Owner, t.Total.StringFixed(2), t.Count)
	}
	fmt.Println(strings.Repeat("=", 50))
}

func printStats(st *core.OrderStats) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 44))
	fmt.Println("  ORDER TOTALS")
	fmt.Println(strings.Repeat("=", 44))
	fmt.Printf("  %-20s %18d\n", "Items", st.TotalItems)
	fmt.Printf("  %-20s %18d\n", "Total sum", st.TotalSum)
	fmt.Printf("  %-20s %18d\n", "Collected", st.TotalPaid)
	fmt.Printf("  %-20s %18d\n", "Outstanding", st.TotalRemaining)
	fmt.Println(strings.Repeat("=", 44))
}
