package models

import (
	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name           string           `gorm:"type:varchar(200);not null"`
	Description    string           `gorm:"type:text;not null;default:''"`
	RetailPrice    decimal.Decimal  `gorm:"type:decimal(12,2);not null;index"`
	WholesalePrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Sizes          string           `gorm:"type:jsonb;not null;default:'[]'"`
	IsBestseller   bool             `gorm:"not null;default:false"`
	IsHit          bool             `gorm:"not null;default:false"`
	IsNew          bool             `gorm:"not null;default:false;index"`
	Category       string           `gorm:"type:varchar(100);not null;default:'';index"`
	ImageURL       string           `gorm:"type:varchar(500);not null;default:''"`
	Material       string           `gorm:"type:varchar(200);not null;default:''"`
	Country        string           `gorm:"type:varchar(100);not null;default:''"`
	ProductType    string           `gorm:"type:varchar(100);not null;default:''"`
	DeliveryInfo   string           `gorm:"type:text;not null;default:''"`
	ViewsCount     int64            `gorm:"not null;default:0;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	var sizes []string
	_ = unmarshalJSON(m.Sizes, &sizes)

	return &catalog.Product{
		BaseEntity:     m.BaseModel.Entity(),
		Name:           m.Name,
		Description:    m.Description,
		RetailPrice:    m.RetailPrice,
		WholesalePrice: m.WholesalePrice,
		Sizes:          sizes,
		Flags: catalog.Flags{
			Bestseller: m.IsBestseller,
			Hit:        m.IsHit,
			New:        m.IsNew,
		},
		Details: catalog.Details{
			Category:     m.Category,
			Material:     m.Material,
			Country:      m.Country,
			ProductType:  m.ProductType,
			DeliveryInfo: m.DeliveryInfo,
		},
		ImageURL:   m.ImageURL,
		ViewsCount: m.ViewsCount,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.BaseModel = baseModelOf(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.RetailPrice = p.RetailPrice
	m.WholesalePrice = p.WholesalePrice
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	m.Sizes = marshalJSON(sizes)
	m.IsBestseller = p.Flags.Bestseller
	m.IsHit = p.Flags.Hit
	m.IsNew = p.Flags.New
	m.Category = p.Details.Category
	m.Material = p.Details.Material
	m.Country = p.Details.Country
	m.ProductType = p.Details.ProductType
	m.DeliveryInfo = p.Details.DeliveryInfo
	m.ImageURL = p.ImageURL
	m.ViewsCount = p.ViewsCount
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
