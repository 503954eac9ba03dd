// Package analytics records storefront activity and builds the back office report.
package analytics

import (
	"context"
	"time"

	"github.com/vetcollars/storefront/internal/domain/analytics"
	"go.uber.org/zap"
)

// MaxReportLimit caps the rows per ranking
const MaxReportLimit = 100

// Service appends user log events and aggregates them
type Service struct {
	repo   analytics.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService(repo analytics.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// RecordView logs a product page view. Failures are logged only.
func (s *Service) RecordView(ctx context.Context, sessionID string, productID int64, productName string) {
	entry := analytics.NewViewLog(sessionID, productID, productName, analytics.SourceDirectLink)
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to record product view",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
	}
}

// RecordSearch logs a non-empty search query with its result count.
// Failures are logged only.
func (s *Service) RecordSearch(ctx context.Context, sessionID, query string, results int) {
	entry, err := analytics.NewSearchLog(sessionID, query, results)
	if err != nil {
		return
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to record search", zap.Error(err))
	}
}

// ReportRequest selects the report window
type ReportRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
	Days  int `form:"days" binding:"omitempty,min=1,max=3650"`
}

// Report ranks products and searches by distinct sessions
func (s *Service) Report(ctx context.Context, req ReportRequest) (*analytics.Report, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = analytics.DefaultReportLimit
	}
	if limit > MaxReportLimit {
		limit = MaxReportLimit
	}
	w := analytics.Window{Limit: limit}
	if req.Days > 0 {
		w.Since = s.now().AddDate(0, 0, -req.Days)
	}

	products, err := s.repo.TopViewedProducts(ctx, w)
	if err != nil {
		return nil, err
	}
	searches, err := s.repo.SearchQueries(ctx, w)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.Totals(ctx, w)
	if err != nil {
		return nil, err
	}

	if products == nil {
		products = []analytics.ProductViews{}
	}
	if searches == nil {
		searches = []analytics.QueryCount{}
	}
	return &analytics.Report{
		TopProducts: products,
		TopSearches: searches,
		Totals:      totals,
	}, nil
}

// PurgeOlderThan deletes events older than the given number of days.
// A non-positive retention keeps everything.
func (s *Service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -days)
	deleted, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Purged user logs",
		zap.Int("retention_days", days),
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
