package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks database spans slower than this
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm plus a callback pair that flags slow
// statements on the current span. Query variables are never recorded.
func RegisterDBTracing(db *gorm.DB, slowThreshold time.Duration) error {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowQueryThreshold
	}

	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, slowThreshold) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("trace_timing:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("trace_timing:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("trace_timing:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("trace_timing:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("trace_timing:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("trace_timing:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("trace_timing:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("trace_timing:after_delete", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("trace_timing:before_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("trace_timing:after_raw", after)
}

func annotateSpan(tx *gorm.DB, slowThreshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
