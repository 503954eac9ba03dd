package models

import (
	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate.
// Items are stored as a JSON array in the order row.
type OrderModel struct {
	BaseModel
	CustomerName  string          `gorm:"type:varchar(100);not null"`
	CustomerPhone string          `gorm:"type:varchar(50);not null"`
	Items         string          `gorm:"type:jsonb;not null"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        order.Status    `gorm:"type:varchar(20);not null;default:'new';index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() (*order.Order, error) {
	var items []order.Item
	if err := unmarshalJSON(m.Items, &items); err != nil {
		return nil, err
	}
	return &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.Entity()},
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		Items:             items,
		TotalPrice:        m.TotalPrice,
		Status:            m.Status,
	}, nil
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.BaseModel = baseModelOf(o.BaseEntity)
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	items := o.Items
	if items == nil {
		items = []order.Item{}
	}
	m.Items = marshalJSON(items)
	m.TotalPrice = o.TotalPrice
	m.Status = o.Status
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
