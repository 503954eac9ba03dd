package order

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

// Status is the back office workflow state of an order
type Status string

const (
	StatusNew       Status = "new"
	StatusCompleted Status = "completed"
)

// ParseStatus converts s to a Status
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusNew || s == StatusCompleted
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Item is one ordered product with its sanitized size breakdown
type Item struct {
	ProductID      int64                  `json:"product_id"`
	Name           string                 `json:"name"`
	UnitPrice      decimal.Decimal        `json:"unit_price"`
	SizeQuantities catalog.SizeQuantities `json:"sizes"`
}

// Quantity returns the units ordered across sizes
func (i Item) Quantity() int {
	return i.SizeQuantities.Total()
}

// Subtotal returns unit price times quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity())))
}

// Order is a customer-submitted request derived from a cart snapshot
type Order struct {
	shared.BaseAggregateRoot
	CustomerName  string
	CustomerPhone string
	Items         []Item
	TotalPrice    decimal.Decimal
	Status        Status
}

// NewOrder validates and sanitizes d and builds an unsaved order with
// status new. The declared total is kept as TotalPrice; callers holding
// authoritative prices use ApplyCatalogPrices.
func NewOrder(d Draft) (*Order, error) {
	items, err := d.Validate()
	if err != nil {
		return nil, err
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerName:      d.trimmedName(),
		CustomerPhone:     d.trimmedPhone(),
		Items:             items,
		TotalPrice:        d.DeclaredTotal,
		Status:            StatusNew,
	}, nil
}

// ComputedTotal returns Σ unit price × quantity over the items
func (o *Order) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ProductIDs returns the distinct product IDs in item order
func (o *Order) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

// ApplyCatalogPrices replaces every unit price with the catalog price and
// sets TotalPrice to the computed total. A product missing from prices
// rejects the order.
func (o *Order) ApplyCatalogPrices(prices map[int64]decimal.Decimal) error {
	for i := range o.Items {
		price, ok := prices[o.Items[i].ProductID]
		if !ok {
			return ProductUnavailableError(o.Items[i].Name)
		}
		o.Items[i].UnitPrice = price
	}
	o.TotalPrice = o.ComputedTotal()
	return nil
}

// MarkPlaced raises OrderPlaced once storage has assigned the order ID.
func (o *Order) MarkPlaced() {
	o.Record(NewOrderPlacedEvent(o))
}

// SetStatus moves the order between new and completed. Setting the current
// status again is a no-op.
func (o *Order) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if o.Status == status {
		return nil
	}
	from := o.Status
	o.Status = status
	o.Touch()
	o.Record(NewOrderStatusChangedEvent(o, from))
	return nil
}

// Reference returns the human readable order reference
func (o *Order) Reference() string {
	return "#" + strconv.FormatInt(o.ID, 10)
}
