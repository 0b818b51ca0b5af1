package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jget-crm/backoffice/internal/config"
)

// Notifier sends operational messages to the staff chat. Delivery is
// best effort: failures are logged and never propagated to the caller.
type Notifier interface {
	Send(message string) bool
}

type notifierImpl struct {
	cfg    config.TelegramConfig
	client *http.Client
}

func NewNotifier(cfg config.TelegramConfig) Notifier {
	return &notifierImpl{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessagePayload struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send delivers the message to every configured chat and reports
// whether at least one delivery succeeded.
func (n *notifierImpl) Send(message string) bool {
	if n.cfg.BotToken == "" {
		slog.Warn("Telegram bot token not configured, skipping notification")
		return false
	}
	if len(n.cfg.ChatIDs) == 0 {
		slog.Warn("Telegram chat ids not configured, skipping notification")
		return false
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.cfg.BotToken)

	successCount := 0
	for _, chatID := range n.cfg.ChatIDs {
		body, err := json.Marshal(sendMessagePayload{
			ChatID:    chatID,
			Text:      message,
			ParseMode: "HTML",
		})
		if err != nil {
			slog.Error("Failed to marshal telegram payload", "error", err)
			continue
		}

		resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			slog.Error("Failed to send telegram message", "chat_id", chatID, "error", err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			slog.Error("Telegram API error", "chat_id", chatID, "status", resp.StatusCode)
			continue
		}
		successCount++
	}

	return successCount > 0
}
