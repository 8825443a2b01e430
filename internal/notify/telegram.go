package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Sender is the outbound side of the broadcast channel. Implementations must
// be safe for use from both the scheduler and the conversational adapter.
type Sender interface {
	SendMessage(ctx context.Context, chatID string, text string) error
	SendDocument(ctx context.Context, chatID string, filename string, data []byte, caption string) error
}

// DeliveryError reports a failed outbound send. The scheduler logs it and
// moves on; the order stays eligible for the next scan.
type DeliveryError struct {
	ChatID string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.ChatID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

const telegramAPIBase = "https://api.telegram.org"

// TelegramClient talks to the Telegram Bot API over HTTP.
type TelegramClient struct {
	http  *resty.Client
	token string
}

func NewTelegramClient(token string) *TelegramClient {
	return &TelegramClient{
		http:  resty.New().SetBaseURL(telegramAPIBase),
		token: token,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID string, text string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": chatID,
			"text":    text,
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", c.token))
	if err != nil {
		return &DeliveryError{ChatID: chatID, Err: err}
	}
	return c.checkResponse(chatID, resp)
}

func (c *TelegramClient) SendDocument(ctx context.Context, chatID string, filename string, data []byte, caption string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("document", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"chat_id": chatID,
			"caption": caption,
		}).
		Post(fmt.Sprintf("/bot%s/sendDocument", c.token))
	if err != nil {
		return &DeliveryError{ChatID: chatID, Err: err}
	}
	return c.checkResponse(chatID, resp)
}

func (c *TelegramClient) checkResponse(chatID string, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusOK {
		var api apiResponse
		_ = json.Unmarshal(resp.Body(), &api)
		return &DeliveryError{
			ChatID: chatID,
			Err:    fmt.Errorf("telegram status %d: %s", resp.StatusCode(), api.Description),
		}
	}
	return nil
}

// GetUpdates long-polls for inbound updates; used by the conversational
// adapter, not the scheduler.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":  fmt.Sprintf("%d", offset),
			"timeout": fmt.Sprintf("%d", timeoutSeconds),
		}).
		Get(fmt.Sprintf("/bot%s/getUpdates", c.token))
	if err != nil {
		return nil, fmt.Errorf("getUpdates request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("getUpdates status: %d", resp.StatusCode())
	}

	var api apiResponse
	if err := json.Unmarshal(resp.Body(), &api); err != nil {
		return nil, fmt.Errorf("getUpdates decode: %w", err)
	}
	if !api.OK {
		return nil, fmt.Errorf("getUpdates failed: %s", api.Description)
	}

	var updates []Update
	if err := json.Unmarshal(api.Result, &updates); err != nil {
		return nil, fmt.Errorf("getUpdates decode result: %w", err)
	}
	return updates, nil
}

// Update is the subset of the Telegram update payload the bot consumes.
type Update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		MessageID int64 `json:"message_id"`
		From      struct {
			ID int64 `json:"id"`
		} `json:"from"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}
