package order

import (
	"context"

	"github.com/vetcollars/storefront/internal/domain/order"
)

// Notifier tells the shop owner about a new order
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, o *order.Order) error
}
