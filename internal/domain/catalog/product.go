package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

// Product is a sellable collar model. Sizes lists the size labels a
// customer can order; an empty list means the product is sold without sizes
// and any label is accepted.
type Product struct {
	shared.BaseEntity
	Name           string
	Description    string
	RetailPrice    decimal.Decimal
	WholesalePrice *decimal.Decimal
	Sizes          []string
	Flags          Flags
	Details        Details
	ImageURL       string
	ViewsCount     int64
}

// Flags are the merchandising badges shown on product cards
type Flags struct {
	Bestseller bool
	Hit        bool
	New        bool
}

// Details holds descriptive attributes shown on the product page
type Details struct {
	Category     string
	Material     string
	Country      string
	ProductType  string
	DeliveryInfo string
}

// NewProduct creates a new product
func NewProduct(name string, retailPrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateRetailPrice(retailPrice); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		RetailPrice: retailPrice,
	}, nil
}

// Rename changes the product name and description
func (p *Product) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.Touch()
	return nil
}

// SetPrices sets the retail price and the optional wholesale price
func (p *Product) SetPrices(retail decimal.Decimal, wholesale *decimal.Decimal) error {
	if err := validateRetailPrice(retail); err != nil {
		return err
	}
	if wholesale != nil && wholesale.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Wholesale price cannot be negative")
	}
	p.RetailPrice = retail
	p.WholesalePrice = wholesale
	p.Touch()
	return nil
}

// SetSizes replaces the size list. Labels are trimmed, blanks dropped and
// duplicates removed keeping the first occurrence.
func (p *Product) SetSizes(sizes []string) {
	seen := make(map[string]struct{}, len(sizes))
	cleaned := make([]string, 0, len(sizes))
	for _, s := range sizes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		cleaned = append(cleaned, s)
	}
	p.Sizes = cleaned
	p.Touch()
}

// HasSize reports whether size may be ordered for this product
func (p *Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// SetFlags replaces the merchandising flags
func (p *Product) SetFlags(f Flags) {
	p.Flags = f
	p.Touch()
}

// SetDetails replaces the descriptive attributes
func (p *Product) SetDetails(d Details) {
	d.Category = strings.TrimSpace(d.Category)
	p.Details = d
	p.Touch()
}

// SetImage sets the public image URL
func (p *Product) SetImage(url string) {
	p.ImageURL = strings.TrimSpace(url)
	p.Touch()
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateRetailPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Retail price must be greater than zero")
	}
	return nil
}
