package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/vetcollars/storefront/internal/domain/cart"
)

type storedCart struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCartRepository implements cart.Repository in process memory.
// Carts are stored serialized so callers never share item maps.
type InMemoryCartRepository struct {
	mu        sync.RWMutex
	carts     map[string]storedCart
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartRepository creates a repository whose carts expire after
// ttl of inactivity. A non-positive ttl keeps carts until Close.
func NewInMemoryCartRepository(ttl time.Duration) *InMemoryCartRepository {
	r := &InMemoryCartRepository{
		carts:    make(map[string]storedCart),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	r.wg.Add(1)
	go runCleanup(&r.wg, r.stopChan, r.cleanup)
	return r
}

// Load returns the session's cart or an empty one
func (r *InMemoryCartRepository) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	r.mu.RLock()
	stored, ok := r.carts[sessionID]
	r.mu.RUnlock()

	if !ok || r.expired(stored, time.Now()) {
		return cart.New(), nil
	}

	c := cart.New()
	if err := json.Unmarshal(stored.data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save stores the cart, removing it when empty
func (r *InMemoryCartRepository) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if c.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[sessionID] = storedCart{data: data, expiresAt: time.Now().Add(r.ttl)}
	return nil
}

// Delete removes the session's cart
func (r *InMemoryCartRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (r *InMemoryCartRepository) Close() error {
	r.closeOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
	return nil
}

func (r *InMemoryCartRepository) expired(s storedCart, now time.Time) bool {
	return r.ttl > 0 && !now.Before(s.expiresAt)
}

func (r *InMemoryCartRepository) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, s := range r.carts {
		if r.expired(s, now) {
			delete(r.carts, id)
		}
	}
}

var _ cart.Repository = (*InMemoryCartRepository)(nil)
