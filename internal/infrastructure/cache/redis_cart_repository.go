package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vetcollars/storefront/internal/domain/cart"
)

// DefaultCartPrefix namespaces session carts
const DefaultCartPrefix = "cart:"

// RedisCartRepository implements cart.Repository with one JSON value per
// session. Every save refreshes the TTL.
type RedisCartRepository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartRepository creates a repository on an existing Redis client
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client:    client,
		keyPrefix: DefaultCartPrefix,
		ttl:       ttl,
	}
}

// Load returns the session's cart or an empty one
func (r *RedisCartRepository) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	c := cart.New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return c, nil
}

// Save stores the cart, removing it when empty
func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if c.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, r.keyPrefix+sessionID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the session's cart
func (r *RedisCartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

var _ cart.Repository = (*RedisCartRepository)(nil)
