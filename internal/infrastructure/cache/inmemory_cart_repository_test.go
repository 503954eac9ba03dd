package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/domain/cart"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
)

func collar() cart.ProductSnapshot {
	return cart.ProductSnapshot{ID: 1, Name: "Collar", UnitPrice: decimal.RequireFromString("12.00")}
}

func TestInMemoryCartRepository(t *testing.T) {
	repo := NewInMemoryCartRepository(time.Hour)
	defer repo.Close()
	ctx := context.Background()

	t.Run("unknown session loads empty cart", func(t *testing.T) {
		c, err := repo.Load(ctx, "nobody")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("round trip", func(t *testing.T) {
		c := cart.New()
		c.AddItem(collar(), map[string]int{"S": 2, "M": 1})
		require.NoError(t, repo.Save(ctx, "s1", c))

		loaded, err := repo.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.TotalItems())
		assert.True(t, decimal.RequireFromString("36").Equal(loaded.TotalPrice()))
	})

	t.Run("loaded carts are independent copies", func(t *testing.T) {
		a, err := repo.Load(ctx, "s1")
		require.NoError(t, err)
		a.Clear()

		b, err := repo.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 3, b.TotalItems())
	})

	t.Run("saving an empty cart deletes it", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "s1", cart.New()))

		loaded, err := repo.Load(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, loaded.IsEmpty())
	})
}

func TestInMemoryCartRepository_Expiry(t *testing.T) {
	repo := NewInMemoryCartRepository(10 * time.Millisecond)
	defer repo.Close()
	ctx := context.Background()

	c := cart.New()
	c.AddItem(collar(), map[string]int{"S": 1})
	require.NoError(t, repo.Save(ctx, "s1", c))

	time.Sleep(20 * time.Millisecond)

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	repo.cleanup()
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	assert.Empty(t, repo.carts)
}

func TestStoreFactory_InMemoryWhenRedisDisabled(t *testing.T) {
	f := NewStoreFactory(configRedisDisabled(), configCart(time.Hour))

	stores, err := f.CreateStores(context.Background())
	require.NoError(t, err)
	defer stores.Close()

	assert.Nil(t, stores.Redis)
	assert.IsType(t, &InMemoryCartRepository{}, stores.Carts)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
}

func configRedisDisabled() config.RedisConfig {
	return config.RedisConfig{Enabled: false, Host: "localhost", Port: 6379}
}

func configCart(ttl time.Duration) config.CartConfig {
	return config.CartConfig{TTL: ttl}
}
