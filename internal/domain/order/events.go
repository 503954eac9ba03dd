package order

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

// Event types
const (
	EventTypeOrderPlaced        = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// AggregateType is the aggregate name carried by order events
const AggregateType = "Order"

// OrderPlacedEvent is raised once an order has been persisted
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       int64           `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Items         []Item          `json:"items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent for o
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	items := make([]Item, len(o.Items))
	copy(items, o.Items)
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateType, strconv.FormatInt(o.ID, 10)),
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Items:           items,
		TotalPrice:      o.TotalPrice,
	}
}

// OrderStatusChangedEvent is raised when the back office changes status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID int64  `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateType, strconv.FormatInt(o.ID, 10)),
		OrderID:         o.ID,
		From:            from,
		To:              o.Status,
	}
}
