package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/order"
)

// OrderItemRequest is one submitted line
type OrderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name" binding:"max=200"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Sizes     map[string]int  `json:"sizes" binding:"max=50,dive,max=1000"`
}

// SubmitOrderRequest is a checkout submission. Field rules are checked by
// the domain so that their messages reach the customer verbatim.
type SubmitOrderRequest struct {
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone"`
	Items          []OrderItemRequest `json:"items" binding:"max=100,dive"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	IdempotencyKey string             `json:"-"`
}

// OrderListFilter is the back office order list query
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=new completed"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at total_price customer_name status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UpdateStatusRequest changes an order's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new completed"`
}

// OrderItemResponse is one stored line
type OrderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Sizes     map[string]int  `json:"sizes"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            int64               `json:"id"`
	Reference     string              `json:"reference"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	Items         []OrderItemResponse `json:"items"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Sizes:     it.SizeQuantities.Clone(),
			Quantity:  it.Quantity(),
			Subtotal:  it.Subtotal(),
		}
	}
	return OrderResponse{
		ID:            o.ID,
		Reference:     o.Reference(),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Items:         items,
		TotalPrice:    o.TotalPrice,
		Status:        o.Status.String(),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toDraft(req SubmitOrderRequest) order.Draft {
	items := make([]order.DraftItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.DraftItem{
			ProductID:      it.ProductID,
			Name:           it.Name,
			UnitPrice:      it.UnitPrice,
			SizeQuantities: it.Sizes,
		}
	}
	return order.NewDraft(req.CustomerName, req.CustomerPhone, items, req.TotalPrice)
}
