package cart

import (
	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/cart"
)

// AddItemRequest adds sizes of one product to the cart
type AddItemRequest struct {
	ProductID int64          `json:"product_id" binding:"required,min=1"`
	Sizes     map[string]int `json:"sizes" binding:"required,min=1,max=50,dive,max=1000"`
}

// UpdateQuantityRequest sets the quantity of one size
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=1000"`
}

// CheckoutRequest carries the customer fields for a cart checkout
type CheckoutRequest struct {
	CustomerName   string `json:"customer_name"`
	CustomerPhone  string `json:"customer_phone"`
	IdempotencyKey string `json:"-"`
}

// CartItemResponse is one cart line
type CartItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Sizes     map[string]int  `json:"sizes"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the cart view returned by every cart operation
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

// ToCartResponse converts a domain cart
func ToCartResponse(c *cart.Cart) *CartResponse {
	items := c.Items()
	out := make([]CartItemResponse, len(items))
	for i, it := range items {
		out[i] = CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			ImageURL:  it.ImageRef,
			Sizes:     it.SizeQuantities,
			Quantity:  it.Quantity(),
			Subtotal:  it.Subtotal(),
		}
	}
	return &CartResponse{
		Items:      out,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
