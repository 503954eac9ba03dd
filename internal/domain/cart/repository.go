package cart

import "context"

// Repository persists carts keyed by storefront session.
type Repository interface {
	// Load returns the session's cart, or an empty cart if none is stored
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Save stores the cart. Saving an empty cart removes it.
	Save(ctx context.Context, sessionID string, c *Cart) error

	// Delete removes the session's cart
	Delete(ctx context.Context, sessionID string) error
}
