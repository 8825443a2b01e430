package repl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sulaymanovI/diamond-water-bot/internal/app"
)

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes natural language input through the interpreter.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Diamond Water CRM")
	fmt.Println("Describe an operation in plain language, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "orders":
			result, err := svc.ListOrders(ctx)
			if err != nil {
				return err
			}
			printOrders(result)

		case "order":
			if len(args) < 1 {
				fmt.Println("Usage: /order <id>")
				return nil
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("Invalid order id: %s\n", args[0])
				return nil
			}
			result, err := svc.GetOrder(ctx, id)
			if err != nil {
				return err
			}
			printOrderDetail(result.Order)

		case "pay":
			if len(args) < 2 {
				fmt.Println("Usage: /pay <order-id> <amount>")
				return nil
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("Invalid order id: %s\n", args[0])
				return nil
			}
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Printf("Invalid amount: %s\n", args[1])
				return nil
			}
			result, err := svc.AddPayment(ctx, id, amount)
			if err != nil {
				return err
			}
			fmt.Printf("Payment recorded. Order #%d: paid %d, remaining %d, status %s\n",
				result.Order.ID, result.Order.TotalPaid, result.Order.RemainingAmount, result.Order.Status)

		case "clients":
			result, err := svc.ListClients(ctx)
			if err != nil {
				return err
			}
			printClients(result)

		case "sellers":
			result, err := svc.ListSellers(ctx)
			if err != nil {
				return err
			}
			printSellers(result)

		case "consumptions", "expenses":
			result, err := svc.ListConsumptions(ctx)
			if err != nil {
				return err
			}
			printConsumptions(result)

		case "totals":
			result, err := svc.ConsumptionTotals(ctx)
			if err != nil {
				return err
			}
			printOwnerTotals(result)

		case "stats":
			st, err := svc.OrderStats(ctx)
			if err != nil {
				return err
			}
			printStats(st)

		case "new-client":
			handleNewClient(ctx, reader, svc)

		case "new-seller":
			handleNewSeller(ctx, reader, svc)

		case "new-order":
			if len(args) < 2 {
				fmt.Println("Usage: /new-order <client-passport> <seller-passport>")
				return nil
			}
			handleNewOrder(ctx, reader, svc, args[0], args[1])

		case "export":
			if len(args) < 1 {
				fmt.Println("Usage: /export orders|sellers|consumptions")
				return nil
			}
			return handleExport(ctx, svc, strings.ToLower(args[0]))

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// Slash prefix → deterministic command dispatcher, no interpreter.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					fmt.Println("Goodbye!")
					break
				}
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		// No slash prefix → route to the interpreter.
		fmt.Println("[AI] Processing...")
		accumulatedInput := input

		rounds := 0
		for {
			rounds++
			if rounds > 3 {
				fmt.Println("Could not interpret the request. Try a slash command instead — type /help.")
				break
			}

			result, err := svc.Interpret(ctx, accumulatedInput)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}

			if result.Clarification != "" {
				fmt.Printf("\n[AI]: %s\n", result.Clarification)
				fmt.Print("> ")
				userFollowUp, _ := reader.ReadString('\n')
				userFollowUp = strings.TrimSpace(userFollowUp)

				// Slash command during clarification — cancel the flow and run it.
				if strings.HasPrefix(userFollowUp, "/") {
					fmt.Println("(AI session cancelled)")
					if dispErr := dispatchSlash(userFollowUp); dispErr != nil {
						if dispErr == errExit {
							fmt.Println("Goodbye!")
							return
						}
						fmt.Printf("Error: %v\n", dispErr)
					}
					break
				}

				if userFollowUp == "" || strings.ToLower(userFollowUp) == "cancel" {
					fmt.Println("Cancelled.")
					break
				}
				accumulatedInput = fmt.Sprintf("Original request: %s\nClarification requested: %s\nUser response: %s",
					accumulatedInput, result.Clarification, userFollowUp)
				fmt.Println("[AI] Thinking...")
				continue
			}

			if result.Pending == nil {
				fmt.Println(result.Answer)
				break
			}

			fmt.Printf("\nPROPOSED: %s\n", result.Pending.Summary)
			fmt.Print("Approve this action? (y/n): ")
			choice, _ := reader.ReadString('\n')
			choice = strings.TrimSpace(strings.ToLower(choice))

			if choice == "y" || choice == "yes" {
				answer, err := svc.ExecuteAction(ctx, result.Pending.Name, result.Pending.Args)
				if err != nil {
					fmt.Printf("Action FAILED: %v\n", err)
				} else {
					fmt.Println(answer)
				}
			} else {
				fmt.Println("Cancelled.")
			}
			break
		}
	}
}

func handleExport(ctx context.Context, svc app.ApplicationService, kind string) error {
	var (
		result *app.ExportResult
		err    error
	)
	switch kind {
	case "orders":
		result, err = svc.ExportOrders(ctx)
	case "sellers":
		result, err = svc.ExportSellers(ctx)
	case "consumptions", "expenses":
		result, err = svc.ExportConsumptions(ctx)
	default:
		fmt.Printf("Unknown export target: %s\n", kind)
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(result.Filename, result.Data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	fmt.Printf("Exported to %s\n", result.Filename)
	return nil
}

func printHelp() {
	fmt.Println(`Commands:
  /orders                                 list all installment orders
  /order <id>                             show one order
  /pay <order-id> <amount>                record a monthly payment
  /clients                                list clients
  /sellers                                list sellers
  /consumptions                           list expense entries
  /totals                                 expense totals per owner
  /stats                                  aggregate order totals
  /new-client                             register a client (interactive)
  /new-seller                             register a seller (interactive)
  /new-order <client-pp> <seller-pp>      create an order (interactive)
  /export orders|sellers|consumptions     write an xlsx report to disk
  /help                                   this help
  /exit                                   quit

Anything without a leading slash is interpreted as natural language.`)
}
