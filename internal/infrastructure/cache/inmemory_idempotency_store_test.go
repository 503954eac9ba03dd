package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("claims a new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		processed, err := store.IsProcessed(ctx, "key-1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("rejects a claimed key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("allows a new claim after expiration", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "key-3")
		require.NoError(t, err)
		assert.False(t, processed)

		isNew, err = store.MarkProcessed(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("release frees the key", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "key-4"))

		isNew, err := store.MarkProcessed(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(ctx, "same-key", time.Hour)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := store.MarkProcessed(ctx, fmt.Sprintf("short-%d", i), time.Millisecond)
		require.NoError(t, err)
	}
	_, err := store.MarkProcessed(ctx, "long", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
