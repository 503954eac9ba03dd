package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

// SortOption selects the storefront ordering of search results
type SortOption string

const (
	SortPopular   SortOption = "popular"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortNewest    SortOption = "newest"
)

// CategoryNew is the pseudo category selecting products flagged as new.
const CategoryNew = "new"

// Search limits
const (
	DefaultSearchLimit = 12
	MaxSearchLimit     = 100
)

// ParseSortOption returns the matching option, or SortPopular for unknown input.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortPriceAsc, SortPriceDesc, SortNewest:
		return SortOption(s)
	default:
		return SortPopular
	}
}

// SearchFilter describes a storefront catalog query
type SearchFilter struct {
	Query    string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     SortOption
	Limit    int
	Offset   int
}

// Normalize clamps the limit and defaults the sort option.
func (f SearchFilter) Normalize() SearchFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultSearchLimit
	}
	if f.Limit > MaxSearchLimit {
		f.Limit = MaxSearchLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Sort = ParseSortOption(string(f.Sort))
	return f
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID, returning shared.ErrNotFound if absent
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDs returns the products that exist among ids
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)

	// Search runs a storefront query. The filter is normalized first; at most
	// filter.Limit rows are returned and hasMore reports whether more exist.
	Search(ctx context.Context, filter SearchFilter) (products []Product, hasMore bool, err error)

	// FindAll lists products for the back office with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the back office filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Categories returns the distinct non-empty categories in ascending order
	Categories(ctx context.Context) ([]string, error)

	// Save inserts a new product (assigning its ID) or updates an existing one
	Save(ctx context.Context, product *Product) error

	// SaveAll inserts new products in one transaction; either all get an ID
	// or none is stored
	SaveAll(ctx context.Context, products []*Product) error

	// Delete removes a product, returning shared.ErrNotFound if absent
	Delete(ctx context.Context, id int64) error

	// IncrementViews atomically adds one to the product view counter
	IncrementViews(ctx context.Context, id int64) error
}
