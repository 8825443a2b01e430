package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sulaymanovI/diamond-water-bot/internal/ai"
	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

// Interpret routes a free-text operator message through the interpreter.
// Read actions execute immediately and return their answer; write actions
// come back as a PendingAction so the adapter can ask for confirmation.
func (s *appService) Interpret(ctx context.Context, message string) (*ChatResult, error) {
	registry := s.buildRegistry()

	resp, err := s.agent.Interpret(ctx, message, registry)
	if err != nil {
		return nil, err
	}

	if resp.IsClarificationRequest {
		if resp.Clarification == nil {
			return nil, fmt.Errorf("interpreter asked for clarification without a question")
		}
		return &ChatResult{Clarification: resp.Clarification.Message}, nil
	}

	action := resp.Action
	def, ok := registry.Get(action.Name)
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action.Name)
	}

	if def.IsRead {
		answer, err := def.Handler(ctx, action.Args)
		if err != nil {
			return nil, err
		}
		return &ChatResult{Answer: answer}, nil
	}

	return &ChatResult{Pending: &PendingAction{
		Name:    action.Name,
		Summary: action.Summary,
		Args:    action.Args,
	}}, nil
}

// ExecuteAction runs a confirmed write action. The name must be one of the
// registered write actions; anything else is rejected.
func (s *appService) ExecuteAction(ctx context.Context, name string, args ai.ActionArgs) (string, error) {
	switch name {
	case "register_client":
		res, err := s.RegisterClient(ctx, RegisterClientRequest{
			FullName:       args.FullName,
			Phone:          args.Phone,
			PassportSerial: args.ClientPassport,
			Address:        args.Address,
			Notes:          args.Notes,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Mijoz ro'yxatga olindi: %s (id %d)", res.Client.FullName, res.Client.ID), nil

	case "register_seller":
		res, err := s.RegisterSeller(ctx, RegisterSellerRequest{
			FullName:       args.FullName,
			Phone:          args.Phone,
			PassportSerial: args.SellerPassport,
			Salary:         args.Salary,
			StartedJobAt:   args.StartDate,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sotuvchi ro'yxatga olindi: %s (id %d)", res.Seller.FullName, res.Seller.ID), nil

	case "create_order":
		res, err := s.CreateOrder(ctx, CreateOrderRequest{
			ClientPassport: args.ClientPassport,
			SellerPassport: args.SellerPassport,
			ItemCount:      args.ItemCount,
			SumOfItem:      args.SumOfItem,
			MonthlyPayment: args.MonthlyPayment,
			Prepaid:        args.Prepaid,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Buyurtma #%d yaratildi. Qoldiq: %d so'm, holat: %s",
			res.Order.ID, res.Order.RemainingAmount, res.Order.Status), nil

	case "add_payment":
		res, err := s.AddPayment(ctx, args.OrderID, args.PaymentAmount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("To'lov qabul qilindi. Buyurtma #%d: to'langan %d, qoldiq %d, holat %s",
			res.Order.ID, res.Order.TotalPaid, res.Order.RemainingAmount, res.Order.Status), nil

	case "update_order":
		upd := orderUpdateFromArgs(args)
		if upd.Empty() {
			return "", &core.ValidationError{Msg: "no order fields to update"}
		}
		res, err := s.UpdateOrder(ctx, args.OrderID, upd)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Buyurtma #%d yangilandi. Qoldiq: %d so'm, holat: %s",
			res.Order.ID, res.Order.RemainingAmount, res.Order.Status), nil

	case "delete_order":
		if err := s.DeleteOrder(ctx, args.OrderID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Buyurtma #%d o'chirildi", args.OrderID), nil

	case "update_seller":
		seller, err := s.sellers.GetByPassport(ctx, args.SellerPassport)
		if err != nil {
			return "", err
		}
		upd := sellerUpdateFromArgs(args)
		if upd.FullName == nil && upd.Phone == nil && upd.Salary == nil && upd.StartedJobAt == nil {
			return "", &core.ValidationError{Msg: "no seller fields to update"}
		}
		res, err := s.UpdateSeller(ctx, seller.ID, upd)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sotuvchi yangilandi: %s (id %d)", res.Seller.FullName, res.Seller.ID), nil

	case "add_consumption":
		res, err := s.AddConsumption(ctx, AddConsumptionRequest{
			Owner:       args.Owner,
			Amount:      args.Amount,
			Description: args.Description,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Xarajat yozildi: %s — %s so'm (id %d)",
			res.Consumption.Owner, res.Consumption.Amount.StringFixed(2), res.Consumption.ID), nil

	case "update_consumption":
		upd, err := consumptionUpdateFromArgs(args)
		if err != nil {
			return "", err
		}
		if upd.Owner == nil && upd.Amount == nil && upd.Description == nil {
			return "", &core.ValidationError{Msg: "no expense fields to update"}
		}
		res, err := s.UpdateConsumption(ctx, args.ConsumptionID, upd)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Xarajat #%d yangilandi: %s — %s so'm",
			res.Consumption.ID, res.Consumption.Owner, res.Consumption.Amount.StringFixed(2)), nil

	case "delete_consumption":
		if err := s.DeleteConsumption(ctx, args.ConsumptionID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Xarajat #%d o'chirildi", args.ConsumptionID), nil
	}

	return "", fmt.Errorf("unknown write action %q", name)
}

func orderUpdateFromArgs(args ai.ActionArgs) core.OrderUpdate {
	var upd core.OrderUpdate
	if args.ItemCount != 0 {
		v := args.ItemCount
		upd.ItemCount = &v
	}
	if args.SumOfItem != 0 {
		v := args.SumOfItem
		upd.SumOfItem = &v
	}
	if args.MonthlyPayment != 0 {
		v := args.MonthlyPayment
		upd.EveryMonthShouldPay = &v
	}
	if args.Prepaid != 0 {
		v := args.Prepaid
		upd.Prepaid = &v
	}
	if args.OrderStatus != "" {
		v := core.OrderStatus(args.OrderStatus)
		upd.Status = &v
	}
	return upd
}

// sellerUpdateFromArgs maps interpreted arguments onto the seller update set.
// The passport serial is the identity key of the request, never an edit target.
func sellerUpdateFromArgs(args ai.ActionArgs) core.SellerUpdate {
	var upd core.SellerUpdate
	if args.FullName != "" {
		v := args.FullName
		upd.FullName = &v
	}
	if args.Phone != "" {
		v := args.Phone
		upd.Phone = &v
	}
	if args.Salary != 0 {
		v := args.Salary
		upd.Salary = &v
	}
	if args.StartDate != "" {
		v := args.StartDate
		upd.StartedJobAt = &v
	}
	return upd
}

func consumptionUpdateFromArgs(args ai.ActionArgs) (core.ConsumptionUpdate, error) {
	var upd core.ConsumptionUpdate
	if args.Owner != "" {
		v := core.ConsumptionOwner(args.Owner)
		upd.Owner = &v
	}
	if args.Amount != "" {
		amount, err := decimal.NewFromString(args.Amount)
		if err != nil {
			return core.ConsumptionUpdate{}, &core.ValidationError{
				Msg: fmt.Sprintf("invalid amount %q: expected a decimal number", args.Amount),
			}
		}
		upd.Amount = &amount
	}
	if args.Description != "" {
		v := args.Description
		upd.Description = &v
	}
	return upd, nil
}

// buildRegistry declares the conversational action surface. Read actions get
// handlers closing over the service; write actions only get described, the
// adapter confirms and calls ExecuteAction.
func (s *appService) buildRegistry() *ai.ActionRegistry {
	r := ai.NewActionRegistry()

	// Reads.
	r.Register(ai.ActionDefinition{
		Name:        "list_orders",
		Description: "Show all installment orders with client, paid and remaining amounts",
		IsRead:      true,
		Handler: func(ctx context.Context, _ ai.ActionArgs) (string, error) {
			res, err := s.ListOrders(ctx)
			if err != nil {
				return "", err
			}
			return formatOrderRows(res.Orders), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "get_order",
		Description: "Show one order by its numeric id",
		IsRead:      true,
		Handler: func(ctx context.Context, args ai.ActionArgs) (string, error) {
			res, err := s.GetOrder(ctx, args.OrderID)
			if err != nil {
				return "", err
			}
			return formatOrder(res.Order), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "order_stats",
		Description: "Aggregate totals over all orders: items, collected, outstanding",
		IsRead:      true,
		Handler: func(ctx context.Context, _ ai.ActionArgs) (string, error) {
			st, err := s.OrderStats(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Jami buyurtmalar:\nMahsulotlar: %d dona\nUmumiy summa: %d so'm\nTo'langan: %d so'm\nQoldiq: %d so'm",
				st.TotalItems, st.TotalSum, st.TotalPaid, st.TotalRemaining), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "list_clients",
		Description: "Show all registered clients",
		IsRead:      true,
		Handler: func(ctx context.Context, _ ai.ActionArgs) (string, error) {
			res, err := s.ListClients(ctx)
			if err != nil {
				return "", err
			}
			return formatClients(res.Clients), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "find_client",
		Description: "Find a client by passport serial",
		IsRead:      true,
		Handler: func(ctx context.Context, args ai.ActionArgs) (string, error) {
			res, err := s.FindClientByPassport(ctx, args.ClientPassport)
			if err != nil {
				return "", err
			}
			return formatClient(res.Client), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "list_sellers",
		Description: "Show all sellers with their order counters",
		IsRead:      true,
		Handler: func(ctx context.Context, _ ai.ActionArgs) (string, error) {
			res, err := s.ListSellers(ctx)
			if err != nil {
				return "", err
			}
			return formatSellers(res.Sellers), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "find_seller",
		Description: "Find a seller by passport serial",
		IsRead:      true,
		Handler: func(ctx context.Context, args ai.ActionArgs) (string, error) {
			res, err := s.FindSellerByPassport(ctx, args.SellerPassport)
			if err != nil {
				return "", err
			}
			return formatSeller(res.Seller), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "list_consumptions",
		Description: "Show all expense entries",
		IsRead:      true,
		Handler: func(ctx context.Context, _ ai.ActionArgs) (string, error) {
			res, err := s.ListConsumptions(ctx)
			if err != nil {
				return "", err
			}
			return formatConsumptions(res.Consumptions), nil
		},
	})
	r.Register(ai.ActionDefinition{
		Name:        "consumption_totals",
		Description: "Show expense totals grouped by owner",
		IsRead:      true,
		Handler: func(ctx context.Context, _ ai.ActionArgs) (string, error) {
			res, err := s.ConsumptionTotals(ctx)
			if err != nil {
				return "", err
			}
			return formatOwnerTotals(res.Totals), nil
		},
	})

	// Writes.
	r.Register(ai.ActionDefinition{
		Name:        "register_client",
		Description: "Register a new client: full_name, phone, client_passport, optional address and notes",
	})
	r.Register(ai.ActionDefinition{
		Name:        "register_seller",
		Description: "Register a new seller: full_name, phone, seller_passport, salary, optional start_date",
	})
	r.Register(ai.ActionDefinition{
		Name:        "create_order",
		Description: "Create an installment order: client_passport, seller_passport, item_count, sum_of_item, monthly_payment, prepaid",
	})
	r.Register(ai.ActionDefinition{
		Name:        "add_payment",
		Description: "Record a monthly installment payment: order_id, payment_amount",
	})
	r.Register(ai.ActionDefinition{
		Name:        "update_order",
		Description: "Edit an order's item_count, sum_of_item, monthly_payment, prepaid or order_status by order_id",
	})
	r.Register(ai.ActionDefinition{
		Name:        "delete_order",
		Description: "Delete an order by order_id; the seller's counter is decremented",
	})
	r.Register(ai.ActionDefinition{
		Name:        "update_seller",
		Description: "Edit a seller's full_name, phone, salary or start_date, identified by seller_passport",
	})
	r.Register(ai.ActionDefinition{
		Name:        "add_consumption",
		Description: "Log an operating expense: owner, amount (decimal string), description",
	})
	r.Register(ai.ActionDefinition{
		Name:        "update_consumption",
		Description: "Edit an expense entry's owner, amount or description by consumption_id",
	})
	r.Register(ai.ActionDefinition{
		Name:        "delete_consumption",
		Description: "Delete an expense entry by consumption_id",
	})

	return r
}

// ── Display formatting ───────────────────────────────────────────────────────

func formatOrder(o *core.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Buyurtma #%d\n", o.ID)
	if o.Client != nil {
		fmt.Fprintf(&b, "Mijoz: %s (%s)\n", o.Client.FullName, o.Client.Phone)
	}
	fmt.Fprintf(&b, "Mahsulot soni: %d\n", o.ItemCount)
	fmt.Fprintf(&b, "Umumiy narx: %d so'm\n", o.SumOfItem)
	fmt.Fprintf(&b, "Oylik to'lov: %d so'm\n", o.EveryMonthShouldPay)
	fmt.Fprintf(&b, "Oldindan to'lov: %d so'm\n", o.Prepaid)
	fmt.Fprintf(&b, "To'langan: %d so'm\n", o.TotalPaid)
	fmt.Fprintf(&b, "Qoldiq: %d so'm\n", o.RemainingAmount)
	fmt.Fprintf(&b, "Holat: %s\n", o.Status)
	fmt.Fprintf(&b, "Sana: %s", o.CreatedAt.Format("2006-01-02"))
	return b.String()
}

func formatOrderRows(rows []core.OrderRow) string {
	if len(rows) == 0 {
		return "Buyurtmalar yo'q"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Buyurtmalar (%d):\n", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "#%d %s | %d so'm, to'langan %d, qoldiq %d | %s\n",
			r.ID, r.ClientName, r.SumOfItem, r.TotalPaid, r.RemainingAmount, r.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatClient(c *core.Client) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nTelefon: %s\nPassport: %s\n", c.FullName, c.Phone, c.PassportSerial)
	if c.Latitude != nil && c.Longitude != nil {
		fmt.Fprintf(&b, "Manzil: %.6f, %.6f\n", *c.Latitude, *c.Longitude)
	} else if c.Address != "" {
		fmt.Fprintf(&b, "Manzil: %s\n", c.Address)
	}
	if c.Notes != "" {
		fmt.Fprintf(&b, "Izoh: %s\n", c.Notes)
	}
	fmt.Fprintf(&b, "Ro'yxatga olingan: %s", c.CreatedAt.Format("2006-01-02"))
	return b.String()
}

func formatClients(clients []core.Client) string {
	if len(clients) == 0 {
		return "Mijozlar yo'q"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Mijozlar (%d):\n", len(clients))
	for _, c := range clients {
		fmt.Fprintf(&b, "%d. %s | %s | %s\n", c.ID, c.FullName, c.Phone, c.PassportSerial)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSeller(sl *core.Seller) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nTelefon: %s\nPassport: %s\nMaosh: %d so'm\nBuyurtmalar: %d",
		sl.FullName, sl.Phone, sl.PassportSerial, sl.Salary, sl.OrderCounter)
	if sl.StartedJobAt != nil {
		fmt.Fprintf(&b, "\nIshga kirgan: %s", sl.StartedJobAt.Format("2006-01-02"))
	}
	return b.String()
}

func formatSellers(sellers []core.Seller) string {
	if len(sellers) == 0 {
		return "Sotuvchilar yo'q"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sotuvchilar (%d):\n", len(sellers))
	for _, sl := range sellers {
		fmt.Fprintf(&b, "%d. %s | %s | %d ta buyurtma\n", sl.ID, sl.FullName, sl.Phone, sl.OrderCounter)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatConsumptions(items []core.Consumption) string {
	if len(items) == 0 {
		return "Xarajatlar yo'q"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Xarajatlar (%d):\n", len(items))
	total := decimal.Zero
	for _, c := range items {
		fmt.Fprintf(&b, "#%d %s — %s so'm | %s | %s\n",
			c.ID, c.Owner, c.Amount.StringFixed(2), c.Description, c.CreatedAt.Format("2006-01-02"))
		total = total.Add(c.Amount)
	}
	fmt.Fprintf(&b, "Jami: %s so'm", total.StringFixed(2))
	return b.String()
}

func formatOwnerTotals(totals []core.OwnerTotal) string {
	if len(totals) == 0 {
		return "Xarajatlar yo'q"
	}
	var b strings.Builder
	b.WriteString("Xarajatlar bo'yicha jami:\n")
	grand := decimal.Zero
	for _, t := range totals {
		fmt.Fprintf(&b, "%s: %s so'm (%d ta)\n", t.Owner, t.Total.StringFixed(2), t.Count)
		grand = grand.Add(t.Total)
	}
	fmt.Fprintf(&b, "Umumiy: %s so'm", grand.StringFixed(2))
	return b.String()
}
