package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and stamps its ID and creation time
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	now := time.Now()
	model.ID = 0
	model.CreatedAt = now
	model.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll lists orders, newest first by default
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s, id %s", sortField, sortOrder, sortOrder))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]order.Order, 0, len(rows))
	for i := range rows {
		o, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("decode order %d: %w", rows[i].ID, err)
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus sets the status of one order. Concurrent updates race and
// the last write wins.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"].(order.Status); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		op := likeOperator(r.db)
		query = query.Where(
			fmt.Sprintf(`customer_name %[1]s ? ESCAPE '\' OR customer_phone %[1]s ? ESCAPE '\'`, op),
			pattern, pattern,
		)
	}
	return query
}

var _ order.Repository = (*GormOrderRepository)(nil)
