package persistence

import (
	"context"
	"time"

	"github.com/vetcollars/storefront/internal/domain/analytics"
	"github.com/vetcollars/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserLogRepository implements analytics.Repository using GORM
type GormUserLogRepository struct {
	db *gorm.DB
}

// NewGormUserLogRepository creates a new GormUserLogRepository
func NewGormUserLogRepository(db *gorm.DB) *GormUserLogRepository {
	return &GormUserLogRepository{db: db}
}

// Append stores a new event
func (r *GormUserLogRepository) Append(ctx context.Context, log *analytics.UserLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	model := models.UserLogModelFromDomain(log)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	log.ID = model.ID
	return nil
}

// TopViewedProducts counts distinct sessions per viewed product
func (r *GormUserLogRepository) TopViewedProducts(ctx context.Context, w analytics.Window) ([]analytics.ProductViews, error) {
	rows := []analytics.ProductViews{}
	query := r.window(ctx, analytics.EventView, w).
		Select("product_id, MAX(label) AS product_name, COUNT(DISTINCT session_id) AS sessions").
		Where("product_id IS NOT NULL").
		Group("product_id").
		Order("sessions DESC, product_id ASC")
	if w.Limit > 0 {
		query = query.Limit(w.Limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchQueries counts distinct sessions per normalized query. The label
// column already holds analytics.NormalizeQuery output.
func (r *GormUserLogRepository) SearchQueries(ctx context.Context, w analytics.Window) ([]analytics.QueryCount, error) {
	rows := []analytics.QueryCount{}
	query := r.window(ctx, analytics.EventSearch, w).
		Select("label AS query, COUNT(DISTINCT session_id) AS sessions").
		Where("label <> ''").
		Group("label").
		Order("sessions DESC, label ASC")
	if w.Limit > 0 {
		query = query.Limit(w.Limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Totals counts events by type
func (r *GormUserLogRepository) Totals(ctx context.Context, w analytics.Window) (analytics.Totals, error) {
	var rows []struct {
		EventType analytics.EventType
		Total     int64
	}
	query := r.db.WithContext(ctx).Model(&models.UserLogModel{}).
		Select("event_type, COUNT(*) AS total").
		Group("event_type")
	if !w.Since.IsZero() {
		query = query.Where("created_at >= ?", w.Since)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return analytics.Totals{}, err
	}

	var totals analytics.Totals
	for _, row := range rows {
		switch row.EventType {
		case analytics.EventView:
			totals.Views = row.Total
		case analytics.EventSearch:
			totals.Searches = row.Total
		}
	}
	return totals, nil
}

// DeleteBefore removes events created before cutoff
func (r *GormUserLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.UserLogModel{})
	return result.RowsAffected, result.Error
}

func (r *GormUserLogRepository) window(ctx context.Context, eventType analytics.EventType, w analytics.Window) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.UserLogModel{}).Where("event_type = ?", eventType)
	if !w.Since.IsZero() {
		query = query.Where("created_at >= ?", w.Since)
	}
	return query
}

var _ analytics.Repository = (*GormUserLogRepository)(nil)
