package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
)

// SearchProductsRequest is the storefront catalog query
type SearchProductsRequest struct {
	Query    string `form:"q" binding:"max=200"`
	Category string `form:"category" binding:"max=100"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	Sort     string `form:"sort" binding:"omitempty,oneof=popular price_asc price_desc newest"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// SearchProductsResponse is one page of storefront results
type SearchProductsResponse struct {
	Products []ProductResponse `json:"products"`
	HasMore  bool              `json:"has_more"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description" binding:"max=5000"`
	RetailPrice    decimal.Decimal  `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Sizes          []string         `json:"sizes" binding:"max=30,dive,max=20"`
	IsBestseller   bool             `json:"is_bestseller"`
	IsHit          bool             `json:"is_hit"`
	IsNew          bool             `json:"is_new"`
	Category       string           `json:"category" binding:"max=100"`
	ImageURL       string           `json:"image_url" binding:"omitempty,max=500"`
	Material       string           `json:"material" binding:"max=200"`
	Country        string           `json:"country" binding:"max=100"`
	ProductType    string           `json:"product_type" binding:"max=100"`
	DeliveryInfo   string           `json:"delivery_info" binding:"max=2000"`
}

// UpdateProductRequest represents a partial product update; nil fields are kept
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=5000"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	ClearWholesale bool             `json:"clear_wholesale_price"`
	Sizes          *[]string        `json:"sizes" binding:"omitempty,max=30,dive,max=20"`
	IsBestseller   *bool            `json:"is_bestseller"`
	IsHit          *bool            `json:"is_hit"`
	IsNew          *bool            `json:"is_new"`
	Category       *string          `json:"category" binding:"omitempty,max=100"`
	ImageURL       *string          `json:"image_url" binding:"omitempty,max=500"`
	Material       *string          `json:"material" binding:"omitempty,max=200"`
	Country        *string          `json:"country" binding:"omitempty,max=100"`
	ProductType    *string          `json:"product_type" binding:"omitempty,max=100"`
	DeliveryInfo   *string          `json:"delivery_info" binding:"omitempty,max=2000"`
}

// ProductListFilter is the back office product list query
type ProductListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name retail_price views_count created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	RetailPrice    decimal.Decimal  `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Sizes          []string         `json:"sizes"`
	IsBestseller   bool             `json:"is_bestseller"`
	IsHit          bool             `json:"is_hit"`
	IsNew          bool             `json:"is_new"`
	Category       string           `json:"category"`
	ImageURL       string           `json:"image_url"`
	Material       string           `json:"material"`
	Country        string           `json:"country"`
	ProductType    string           `json:"product_type"`
	DeliveryInfo   string           `json:"delivery_info"`
	ViewsCount     int64            `json:"views_count"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// UploadImageResponse carries the public URL of an uploaded image
type UploadImageResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
		Sizes:          sizes,
		IsBestseller:   p.Flags.Bestseller,
		IsHit:          p.Flags.Hit,
		IsNew:          p.Flags.New,
		Category:       p.Details.Category,
		ImageURL:       p.ImageURL,
		Material:       p.Details.Material,
		Country:        p.Details.Country,
		ProductType:    p.Details.ProductType,
		DeliveryInfo:   p.Details.DeliveryInfo,
		ViewsCount:     p.ViewsCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
