package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ActionArgs is the flat argument payload an interpreted action carries.
// Fields are optional; each action reads only the ones it needs.
type ActionArgs struct {
	OrderID         int64   `json:"order_id,omitempty" jsonschema_description:"Numeric order id, when the operator referenced an existing order"`
	ClientPassport  string  `json:"client_passport,omitempty" jsonschema_description:"Client passport serial, e.g. AB1234567"`
	SellerPassport  string  `json:"seller_passport,omitempty" jsonschema_description:"Seller passport serial"`
	FullName        string  `json:"full_name,omitempty" jsonschema_description:"Person full name for registrations"`
	Phone           string  `json:"phone,omitempty" jsonschema_description:"Phone number"`
	Address         string  `json:"address,omitempty" jsonschema_description:"Free-text address"`
	Notes           string  `json:"notes,omitempty" jsonschema_description:"Optional notes"`
	Salary          int64   `json:"salary,omitempty" jsonschema_description:"Seller monthly salary in so'm"`
	StartDate       string  `json:"start_date,omitempty" jsonschema_description:"Seller start date, YYYY-MM-DD"`
	ItemCount       int     `json:"item_count,omitempty" jsonschema_description:"Number of items in the order, must be positive"`
	SumOfItem       int64   `json:"sum_of_item,omitempty" jsonschema_description:"Total order price in whole so'm"`
	MonthlyPayment  int64   `json:"monthly_payment,omitempty" jsonschema_description:"Scheduled monthly installment in whole so'm"`
	Prepaid         int64   `json:"prepaid,omitempty" jsonschema_description:"Amount paid up front in whole so'm, 0 if none"`
	PaymentAmount   int64   `json:"payment_amount,omitempty" jsonschema_description:"Payment amount in whole so'm for add_payment"`
	OrderStatus     string  `json:"order_status,omitempty" jsonschema_description:"New order status: Ochiq, Yopilgan or Qaytarilgan"`
	ConsumptionID   int64   `json:"consumption_id,omitempty" jsonschema_description:"Numeric expense entry id"`
	Owner           string  `json:"owner,omitempty" jsonschema_description:"Expense owner, one of the fixed staff names"`
	Amount          string  `json:"amount,omitempty" jsonschema_description:"Expense amount as a decimal string with up to 2 fraction digits, e.g. 125000.50"`
	Description     string  `json:"description,omitempty" jsonschema_description:"Expense description"`
}

// ProposedAction is an interpreted operator request. Write actions are
// surfaced for confirmation before execution; read actions run immediately.
type ProposedAction struct {
	Name    string     `json:"name" jsonschema_description:"The exact action name from the provided action list"`
	Args    ActionArgs `json:"args" jsonschema_description:"Arguments extracted from the operator's message"`
	Summary string     `json:"summary" jsonschema_description:"One-sentence restatement of what will be done, in the operator's language"`
}

// ClarificationRequest is returned when the operator's message is ambiguous
// or missing required details.
type ClarificationRequest struct {
	Message string `json:"message" jsonschema_description:"A question asking the operator for the missing details"`
}

// InterpreterResponse wraps the model output: exactly one of Action or
// Clarification is set.
type InterpreterResponse struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information to pick an action"`
	Clarification          *ClarificationRequest `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true"`
	Action                 *ProposedAction       `json:"action,omitempty" jsonschema_description:"Required if is_clarification_request is false"`
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// Interpret maps a free-text operator message onto one of the registered
// actions using structured output. It does not execute anything.
func (a *Agent) Interpret(ctx context.Context, message string, registry *ActionRegistry) (*InterpreterResponse, error) {
	var catalog strings.Builder
	for _, act := range registry.All() {
		kind := "write"
		if act.IsRead {
			kind = "read"
		}
		fmt.Fprintf(&catalog, "- %s (%s): %s\n", act.Name, kind, act.Description)
	}

	prompt := fmt.Sprintf(`You are the assistant of a small retail CRM that manages installment orders.
Interpret the operator's message and pick exactly one action from the list.
Rules:
1. Use ONLY action names from the list below.
2. Extract every argument the message provides; leave the rest empty.
3. Monetary order amounts are whole so'm integers; expense amounts are decimal strings.
4. If required details are missing or the request is ambiguous, ask for clarification instead.
5. Operators write in Uzbek or Russian; answer clarifications in the operator's language.

Actions:
%s
Message: %s`, catalog.String(), message)

	schemaStruct := interpreterSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "crm_action",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("An interpreted CRM action or a clarification request"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var out InterpreterResponse
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if !out.IsClarificationRequest {
		if out.Action == nil {
			return nil, fmt.Errorf("interpreter returned neither action nor clarification")
		}
		if _, ok := registry.Get(out.Action.Name); !ok {
			return nil, fmt.Errorf("interpreter proposed unknown action %q", out.Action.Name)
		}
	}
	return &out, nil
}

func interpreterSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v InterpreterResponse
	return reflector.Reflect(v)
}
