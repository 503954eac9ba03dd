// Package cart implements the session cart on top of the catalog.
package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/vetcollars/storefront/internal/application/order"
	"github.com/vetcollars/storefront/internal/domain/cart"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrInvalidSize is returned when a size is not offered for the product
var ErrInvalidSize = shared.NewDomainError("INVALID_SIZE", "Size is not available for this product")

// ErrInvalidSession is returned when no session id is available
var ErrInvalidSession = shared.NewDomainError("INVALID_SESSION", "Session is required")

// OrderSubmitter submits an order built from the cart
type OrderSubmitter interface {
	Submit(ctx context.Context, req order.SubmitOrderRequest) (*order.OrderResponse, error)
}

// Service manages session carts
type Service struct {
	repo     cart.Repository
	products catalog.ProductRepository
	orders   OrderSubmitter
	logger   *zap.Logger
}

// NewService creates a new cart Service
func NewService(repo cart.Repository, products catalog.ProductRepository, orders OrderSubmitter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// Get returns the session's cart
func (s *Service) Get(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// AddItem adds sizes of a product, capturing its current name, retail
// price and image. Non-positive quantities are ignored.
func (s *Service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*CartResponse, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	for _, size := range sortedSizes(req.Sizes) {
		if req.Sizes[size] > 0 && !p.HasSize(size) {
			return nil, shared.NewDomainError(ErrInvalidSize.Code, fmt.Sprintf("Size %s is not available for %s", size, p.Name))
		}
	}

	c.AddItem(cart.ProductSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.RetailPrice,
		ImageRef:  p.ImageURL,
	}, req.Sizes)

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// UpdateQuantity sets the quantity of one size. Zero removes the size.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID int64, size string, quantity int) (*CartResponse, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.UpdateQuantity(productID, size, quantity)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// RemoveItem drops a product from the cart
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) (*CartResponse, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(productID)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) (*CartResponse, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, shared.ErrUnavailable
	}
	return ToCartResponse(cart.New()), nil
}

// Checkout submits the cart as an order and clears it on success. A
// failed submission leaves the cart untouched.
func (s *Service) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*order.OrderResponse, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := c.Items()
	orderItems := make([]order.OrderItemRequest, len(items))
	for i, it := range items {
		orderItems[i] = order.OrderItemRequest{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Sizes:     it.SizeQuantities,
		}
	}

	resp, err := s.orders.Submit(ctx, order.SubmitOrderRequest{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Items:          orderItems,
		TotalPrice:     c.TotalPrice(),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("Order placed but cart was not cleared",
			zap.String("session_id", sessionID),
			zap.Int64("order_id", resp.ID),
			zap.Error(err),
		)
	}
	return resp, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, shared.ErrUnavailable
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		s.logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		return shared.ErrUnavailable
	}
	return nil
}

func sortedSizes(sizes map[string]int) []string {
	out := make([]string, 0, len(sizes))
	for size := range sizes {
		out = append(out, size)
	}
	sort.Strings(out)
	return out
}
