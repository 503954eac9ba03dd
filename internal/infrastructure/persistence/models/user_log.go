package models

import (
	"time"

	"github.com/vetcollars/storefront/internal/domain/analytics"
)

// UserLogModel is the persistence model for analytics events.
// ProductID and Label duplicate payload fields so reports can group
// without JSON operators: Label is the product name for views and the
// normalized query for searches.
type UserLogModel struct {
	ID        int64               `gorm:"primaryKey;autoIncrement"`
	EventType analytics.EventType `gorm:"type:varchar(20);not null;index:idx_user_logs_type_created,priority:1"`
	SessionID string              `gorm:"type:varchar(64);not null;default:''"`
	ProductID *int64              `gorm:"index"`
	Label     string              `gorm:"type:varchar(200);not null;default:''"`
	Payload   string              `gorm:"type:jsonb;not null"`
	CreatedAt time.Time           `gorm:"not null;index:idx_user_logs_type_created,priority:2"`
}

// TableName returns the table name for GORM
func (UserLogModel) TableName() string {
	return "user_logs"
}

// ToDomain converts the persistence model to a domain UserLog.
func (m *UserLogModel) ToDomain() (*analytics.UserLog, error) {
	payload := map[string]any{}
	if err := unmarshalJSON(m.Payload, &payload); err != nil {
		return nil, err
	}
	return &analytics.UserLog{
		ID:        m.ID,
		EventType: m.EventType,
		SessionID: m.SessionID,
		Payload:   payload,
		CreatedAt: m.CreatedAt,
	}, nil
}

// UserLogModelFromDomain creates a new persistence model from a domain UserLog.
func UserLogModelFromDomain(l *analytics.UserLog) *UserLogModel {
	m := &UserLogModel{
		ID:        l.ID,
		EventType: l.EventType,
		SessionID: l.SessionID,
		Payload:   marshalJSON(l.Payload),
		CreatedAt: l.CreatedAt,
	}

	switch l.EventType {
	case analytics.EventView:
		if id, ok := int64Value(l.Payload["product_id"]); ok {
			m.ProductID = &id
		}
		m.Label, _ = l.Payload["product_name"].(string)
	case analytics.EventSearch:
		q, _ := l.Payload["query"].(string)
		m.Label = analytics.NormalizeQuery(q)
	}
	return m
}

func int64Value(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
