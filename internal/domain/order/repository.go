package order

import (
	"context"

	"github.com/vetcollars/storefront/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// Create inserts a new order and assigns its ID and CreatedAt
	Create(ctx context.Context, o *Order) error

	// FindByID finds an order by ID, returning shared.ErrNotFound if absent
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FindAll lists orders, newest first unless the filter says otherwise.
	// Filters["status"] narrows by Status.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// UpdateStatus writes the status of one order without a version check
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
