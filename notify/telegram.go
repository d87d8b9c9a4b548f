package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chatkit/api"
)

const telegramMaxChars = 3900

// telegramTarget stands in for the sendMessage URL, which embeds the bot token.
const telegramTarget = "telegram/sendMessage"

// Telegram sends each message to one chat through the Bot API sendMessage call.
type Telegram struct {
	client  *api.Client
	apiBase string
	chatID  int64
}

// NewTelegram creates a Telegram sink for the given bot API base URL
// (e.g. "https://api.telegram.org/bot<token>").
func NewTelegram(client *api.Client, apiBase string, chatID int64) *Telegram {
	return &Telegram{
		client:  client,
		apiBase: strings.TrimRight(apiBase, "/"),
		chatID:  chatID,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (t *Telegram) Notify(ctx context.Context, message string) error {
	req := sendMessageRequest{ChatID: t.chatID, Text: truncate(message, telegramMaxChars)}
	resp, err := api.PostJSON[telegramResponse](ctx, t.client, t.apiBase+"/sendMessage", req, api.DisplayAs(telegramTarget))
	if err != nil {
		if desc := errorDescription(err); desc != "" {
			return fmt.Errorf("telegram sendMessage request failed: %w: %s", err, desc)
		}
		return fmt.Errorf("telegram sendMessage request failed: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram sendMessage rejected: %s", resp.Description)
	}
	return nil
}

// errorDescription extracts the Bot API description from a buffered status
// failure, e.g. "Bad Request: chat not found".
func errorDescription(err error) string {
	r, ok := api.ResponseFromError(err)
	if !ok {
		return ""
	}
	var body telegramResponse
	if json.NewDecoder(r.Body).Decode(&body) != nil {
		return ""
	}
	return body.Description
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
