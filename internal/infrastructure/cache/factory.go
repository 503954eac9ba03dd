package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/vetcollars/storefront/internal/domain/cart"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores groups the session scoped key-value stores
type Stores struct {
	Carts       cart.Repository
	Idempotency shared.IdempotencyStore
	// Redis is nil when the stores live in process memory
	Redis *redis.Client

	closers []io.Closer
}

// Close releases the stores and the Redis connection
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StoreFactory creates stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	cartConfig            config.CartConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// in-memory stores. Default is false: an enabled Redis must be reachable.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(redisCfg config.RedisConfig, cartCfg config.CartConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig: redisCfg,
		cartConfig:  cartCfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateInMemoryStores creates process local stores. Carts and idempotency
// claims are lost on restart and not shared between instances.
func (f *StoreFactory) CreateInMemoryStores() *Stores {
	carts := NewInMemoryCartRepository(f.cartConfig.TTL)
	idem := NewInMemoryIdempotencyStore()
	return &Stores{
		Carts:       carts,
		Idempotency: idem,
		closers:     []io.Closer{carts, idem},
	}
}

// CreateRedisStores creates Redis backed stores on a new client
func (f *StoreFactory) CreateRedisStores(ctx context.Context) (*Stores, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Carts:       NewRedisCartRepository(client, f.cartConfig.TTL),
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Redis:       client,
		closers:     []io.Closer{client},
	}, nil
}

// CreateStores picks Redis when enabled, otherwise in-memory stores
func (f *StoreFactory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory cart and idempotency stores")
		return f.CreateInMemoryStores(), nil
	}

	stores, err := f.CreateRedisStores(ctx)
	if err == nil {
		f.logger.Info("using Redis cart and idempotency stores", zap.String("addr", f.redisConfig.Addr()))
		return stores, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Carts will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStores(), nil
}
