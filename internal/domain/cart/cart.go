// Package cart models a shopper's cart: requested quantities per product
// size with deterministic totals.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
)

// ProductSnapshot is the product data captured when an item is first added.
// It is not re-synced if the catalog changes later.
type ProductSnapshot struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
}

// Item is one product in the cart. SizeQuantities never holds a
// non-positive quantity and is never empty while the item is in a cart.
type Item struct {
	ProductID      int64                  `json:"product_id"`
	Name           string                 `json:"name"`
	UnitPrice      decimal.Decimal        `json:"unit_price"`
	ImageRef       string                 `json:"image_ref,omitempty"`
	SizeQuantities catalog.SizeQuantities `json:"size_quantities"`
}

// Quantity returns the number of units across all sizes
func (i Item) Quantity() int {
	return i.SizeQuantities.Total()
}

// Subtotal returns unit price times quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity())))
}

func (i Item) clone() Item {
	i.SizeQuantities = i.SizeQuantities.Clone()
	return i
}

// Cart is the store of one session's items, kept in insertion order.
// A Cart is not safe for concurrent use.
type Cart struct {
	items []*Item
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// FromItems rebuilds a cart from persisted items. Entries breaking the cart
// invariants (non-positive quantities, empty items, duplicate products) are
// normalized the same way AddItem would.
func FromItems(items []Item) *Cart {
	c := New()
	for _, it := range items {
		c.AddItem(ProductSnapshot{
			ID:        it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			ImageRef:  it.ImageRef,
		}, it.SizeQuantities)
	}
	return c
}

// AddItem adds requested quantities for a product. Non-positive quantities
// are ignored. For a product already in the cart the quantities are summed
// per size; the captured snapshot is kept. Every size is capped at
// catalog.MaxQuantityPerSize.
func (c *Cart) AddItem(product ProductSnapshot, requested map[string]int) {
	sizes := catalog.SizeQuantities(requested).Positive()
	if len(sizes) == 0 {
		return
	}
	for size, q := range sizes {
		sizes[size] = catalog.ClampQuantity(q)
	}

	if existing := c.find(product.ID); existing != nil {
		for size, q := range sizes {
			existing.SizeQuantities[size] = catalog.ClampQuantity(existing.SizeQuantities[size] + q)
		}
		return
	}

	c.items = append(c.items, &Item{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPrice:      product.UnitPrice,
		ImageRef:       product.ImageRef,
		SizeQuantities: sizes,
	})
}

// UpdateQuantity sets the quantity of one size to max(0, quantity), capped
// at catalog.MaxQuantityPerSize. A zero quantity deletes the size and an
// item left without sizes is removed.
// Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID int64, size string, quantity int) {
	item := c.find(productID)
	if item == nil {
		return
	}

	if quantity > 0 {
		item.SizeQuantities[size] = catalog.ClampQuantity(quantity)
		return
	}

	delete(item.SizeQuantities, size)
	if len(item.SizeQuantities) == 0 {
		c.RemoveItem(productID)
	}
}

// RemoveItem deletes the product from the cart
func (c *Cart) RemoveItem(productID int64) {
	for i, it := range c.items {
		if it.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the items in insertion order
func (c *Cart) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.clone())
	}
	return out
}

// Item returns a copy of the item for productID
func (c *Cart) Item(productID int64) (Item, bool) {
	if it := c.find(productID); it != nil {
		return it.clone(), true
	}
	return Item{}, false
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalItems returns the number of units across all items and sizes
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity()
	}
	return total
}

// TotalPrice returns Σ unit price × quantity. The value is not rounded.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (c *Cart) find(productID int64) *Item {
	for _, it := range c.items {
		if it.ProductID == productID {
			return it
		}
	}
	return nil
}

// MarshalJSON encodes the cart as its item list
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

// UnmarshalJSON decodes an item list, normalizing it with FromItems
func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = *FromItems(items)
	return nil
}
