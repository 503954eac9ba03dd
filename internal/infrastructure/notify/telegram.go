// Package notify delivers order notifications to the shop owner.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	orderapp "github.com/vetcollars/storefront/internal/application/order"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxTelegramResponseSize limits how much of the Bot API reply is read
const maxTelegramResponseSize = 64 * 1024

var (
	// ErrTelegramUnavailable is returned when the Bot API cannot be reached
	ErrTelegramUnavailable = errors.New("telegram: api unavailable")
	// ErrTelegramRejected is returned when the Bot API answers ok=false
	ErrTelegramRejected = errors.New("telegram: message rejected")
)

var _ orderapp.Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier sends new order messages to a chat through the Bot API
type TelegramNotifier struct {
	token      string
	chatID     string
	apiURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTelegramNotifier creates a notifier from configuration
func NewTelegramNotifier(cfg config.TelegramConfig, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Enabled() {
		return nil, errors.New("telegram: bot token and chat id are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}
	return &TelegramNotifier{
		token:      cfg.BotToken,
		chatID:     cfg.ChatID,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NotifyOrderPlaced formats the order and posts it to the chat
func (n *TelegramNotifier) NotifyOrderPlaced(ctx context.Context, o *order.Order) error {
	return n.Send(ctx, order.FormatNotification(o))
}

// Send posts a Markdown message to the configured chat
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		// the URL carries the bot token; don't let it reach the logs
		return fmt.Errorf("%w: %s", ErrTelegramUnavailable, redact(err.Error(), n.token))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxTelegramResponseSize))
	if err != nil {
		return fmt.Errorf("telegram: failed to read response: %w", err)
	}

	var result sendMessageResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%w: HTTP %d", ErrTelegramRejected, resp.StatusCode)
	}
	if resp.StatusCode >= 400 || !result.OK {
		return fmt.Errorf("%w: HTTP %d: %s", ErrTelegramRejected, resp.StatusCode, result.Description)
	}

	n.logger.Debug("Telegram message sent", zap.String("chat_id", n.chatID))
	return nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
