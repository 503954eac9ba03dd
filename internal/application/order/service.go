// Package order implements checkout submission and back office order handling.
package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is used when Options.IdempotencyTTL is not set
const DefaultIdempotencyTTL = 24 * time.Hour

// Options tunes order submission
type Options struct {
	// TrustClientTotal keeps client declared prices instead of repricing
	// items from the catalog.
	TrustClientTotal bool
	IdempotencyTTL   time.Duration
}

// Service handles order submission and the back office order workflow
type Service struct {
	repo        order.Repository
	products    catalog.ProductRepository
	idempotency shared.IdempotencyStore
	publisher   shared.EventPublisher
	notifier    Notifier
	opts        Options
	logger      *zap.Logger
}

// NewService creates a new order Service. idempotency, publisher and
// notifier may be nil.
func NewService(
	repo order.Repository,
	products catalog.ProductRepository,
	idempotency shared.IdempotencyStore,
	publisher shared.EventPublisher,
	notifier Notifier,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = DefaultIdempotencyTTL
	}
	return &Service{
		repo:        repo,
		products:    products,
		idempotency: idempotency,
		publisher:   publisher,
		notifier:    notifier,
		opts:        opts,
		logger:      logger,
	}
}

// Submit validates and stores an order, then notifies the shop owner.
//
// Validation errors are returned as is and nothing is written. Any failure
// after validation is logged and reported as ErrSubmissionFailed. A
// notification failure does not fail the submission.
func (s *Service) Submit(ctx context.Context, req SubmitOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "submit",
		attribute.Int("order.items", len(req.Items)),
	)
	defer span.End()

	o, err := order.NewOrder(toDraft(req))
	if err != nil {
		return nil, err
	}

	if !s.opts.TrustClientTotal {
		if err := s.reprice(ctx, o); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		claimed, err := s.idempotency.MarkProcessed(ctx, key, s.opts.IdempotencyTTL)
		switch {
		case err != nil:
			s.logger.Warn("Idempotency store unavailable, continuing without it",
				zap.String("idempotency_key", key),
				zap.Error(err),
			)
			key = ""
		case !claimed:
			return nil, ErrDuplicateSubmission
		}
	} else {
		key = ""
	}

	if err := s.repo.Create(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to store order",
			zap.String("customer_phone", o.CustomerPhone),
			zap.Int("items", len(o.Items)),
			zap.String("total_price", o.TotalPrice.String()),
			zap.Error(err),
		)
		if key != "" {
			if rerr := s.idempotency.Release(ctx, key); rerr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.String("idempotency_key", key), zap.Error(rerr))
			}
		}
		return nil, ErrSubmissionFailed
	}

	span.SetAttributes(attribute.Int64("order.id", o.ID))
	o.MarkPlaced()
	s.publishEvents(ctx, o)

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(ctx, o); err != nil {
			s.logger.Warn("Order notification failed",
				zap.Int64("order_id", o.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Order placed",
		zap.Int64("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.String("total_price", o.TotalPrice.String()),
	)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// reprice replaces client declared prices with catalog prices
func (s *Service) reprice(ctx context.Context, o *order.Order) error {
	products, err := s.products.FindByIDs(ctx, o.ProductIDs())
	if err != nil {
		s.logger.Error("Failed to load catalog prices", zap.Error(err))
		return ErrSubmissionFailed
	}

	prices := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.RetailPrice
	}

	declared := o.TotalPrice
	if err := o.ApplyCatalogPrices(prices); err != nil {
		return err
	}
	if !declared.Equal(o.TotalPrice) {
		s.logger.Warn("Declared order total differs from catalog total",
			zap.String("declared", declared.String()),
			zap.String("computed", o.TotalPrice.String()),
		)
	}
	return nil
}

// List returns a page of orders for the back office
func (s *Service) List(ctx context.Context, req OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = strings.TrimSpace(req.Search)
	if req.Status != "" {
		st, err := order.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		filter.Filters["status"] = st
	}

	orders, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetByID returns one order
func (s *Service) GetByID(ctx context.Context, id int64) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateStatus moves an order between new and completed. Setting the
// current status again succeeds without writing.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*OrderResponse, error) {
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.SetStatus(status); err != nil {
		return nil, err
	}
	if from == o.Status {
		resp := ToOrderResponse(o)
		return &resp, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	s.logger.Info("Order status changed",
		zap.Int64("order_id", id),
		zap.String("from", from.String()),
		zap.String("to", status.String()),
	)

	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	events := o.PullEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish order events",
			zap.String("order_id", strconv.FormatInt(o.ID, 10)),
			zap.Error(err),
		)
	}
}

// IsSubmissionFailure reports whether err is the generic submission failure
func IsSubmissionFailure(err error) bool {
	return errors.Is(err, ErrSubmissionFailed)
}
