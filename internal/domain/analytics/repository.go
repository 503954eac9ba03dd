package analytics

import (
	"context"
	"time"
)

// ProductViews is the number of distinct sessions that viewed a product
type ProductViews struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Sessions    int64  `json:"unique_sessions"`
}

// QueryCount is the number of distinct sessions that ran a normalized query
type QueryCount struct {
	Query    string `json:"query"`
	Sessions int64  `json:"unique_sessions"`
}

// Totals counts logged events by type
type Totals struct {
	Views    int64 `json:"views"`
	Searches int64 `json:"searches"`
}

// Window bounds a report; a zero Since means all time
type Window struct {
	Since time.Time
	Limit int
}

// Repository defines the interface for the user log
type Repository interface {
	// Append stores a new event and assigns its ID
	Append(ctx context.Context, log *UserLog) error

	// TopViewedProducts counts distinct sessions per viewed product
	TopViewedProducts(ctx context.Context, w Window) ([]ProductViews, error)

	// SearchQueries counts distinct sessions per normalized query, ranked
	// by sessions desc then query asc
	SearchQueries(ctx context.Context, w Window) ([]QueryCount, error)

	// Totals counts events by type
	Totals(ctx context.Context, w Window) (Totals, error)

	// DeleteBefore removes events created before cutoff and returns how many
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
