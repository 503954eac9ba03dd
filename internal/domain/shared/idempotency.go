package shared

import (
	"context"
	"time"
)

// IdempotencyStore records keys that have already been acted upon, such as
// client supplied Idempotency-Key headers on checkout.
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. It returns false when the key was
	// already claimed and has not expired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether key is currently claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so the key can be retried
	Release(ctx context.Context, key string) error
}
