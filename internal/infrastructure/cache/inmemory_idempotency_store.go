package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vetcollars/storefront/internal/domain/shared"
)

// expiringEntry is a claimed key with its expiration
type expiringEntry struct {
	expiresAt time.Time
}

func (e expiringEntry) live(now time.Time) bool {
	return now.Before(e.expiresAt)
}

// InMemoryIdempotencyStore implements IdempotencyStore using an in-memory map.
// Claims are not shared between processes; use it for single-instance
// deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	entries   map[string]expiringEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store.
// It starts a background goroutine that drops expired keys; call Close to stop it.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries:  make(map[string]expiringEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go runCleanup(&store.wg, store.stopChan, store.cleanup)

	return store
}

// MarkProcessed claims key for ttl.
// Returns true if the key was newly claimed, false if a live claim exists.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if e, exists := s.entries[key]; exists && e.live(now) {
		return false, nil
	}

	s.entries[key] = expiringEntry{expiresAt: now.Add(ttl)}
	return true, nil
}

// IsProcessed checks if key holds a live claim
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	return exists && e.live(time.Now()), nil
}

// Release drops the claim on key
func (s *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if !e.live(now) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// cleanupInterval is how often in-memory stores sweep expired entries
const cleanupInterval = 5 * time.Minute

func runCleanup(wg *sync.WaitGroup, stop <-chan struct{}, sweep func()) {
	defer wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			sweep()
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
