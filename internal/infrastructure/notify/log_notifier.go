package notify

import (
	"context"

	orderapp "github.com/vetcollars/storefront/internal/application/order"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ orderapp.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the notification to the log. Used when no bot is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyOrderPlaced logs the formatted message
func (n *LogNotifier) NotifyOrderPlaced(ctx context.Context, o *order.Order) error {
	n.logger.Info("Order notification (telegram disabled)",
		zap.Int64("order_id", o.ID),
		zap.String("message", order.FormatNotification(o)),
	)
	return nil
}

// New picks the Telegram notifier when configured, the log notifier otherwise
func New(cfg config.TelegramConfig, logger *zap.Logger) (orderapp.Notifier, error) {
	if !cfg.Enabled() {
		return NewLogNotifier(logger), nil
	}
	return NewTelegramNotifier(cfg, logger)
}
