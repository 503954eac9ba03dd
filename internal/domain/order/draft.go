package order

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
)

// Customer field limits, counted in characters after trimming.
const (
	MinNameLength  = 2
	MaxNameLength  = 100
	MinPhoneLength = 7
	MaxPhoneLength = 50
)

// DraftItem is an item as declared by the client
type DraftItem struct {
	ProductID      int64
	Name           string
	UnitPrice      decimal.Decimal
	SizeQuantities map[string]int
}

// Draft is an unvalidated order submission
type Draft struct {
	CustomerName  string
	CustomerPhone string
	Items         []DraftItem
	DeclaredTotal decimal.Decimal
}

// NewDraft creates a draft from raw submission fields
func NewDraft(name, phone string, items []DraftItem, declaredTotal decimal.Decimal) Draft {
	return Draft{
		CustomerName:  name,
		CustomerPhone: phone,
		Items:         items,
		DeclaredTotal: declaredTotal,
	}
}

func (d Draft) trimmedName() string  { return strings.TrimSpace(d.CustomerName) }
func (d Draft) trimmedPhone() string { return strings.TrimSpace(d.CustomerPhone) }

// Validate checks the draft and returns its sanitized items. Checks run in
// a fixed order and stop at the first failure: customer name, phone, empty
// items, then per-item quantities. Sizes with quantity <= 0 are dropped; an
// item left with no sizes, or with a size above catalog.MaxQuantityPerSize,
// rejects the whole draft.
func (d Draft) Validate() ([]Item, error) {
	name := utf8.RuneCountInString(d.trimmedName())
	if name < MinNameLength || name > MaxNameLength {
		return nil, ErrInvalidCustomerName
	}
	phone := utf8.RuneCountInString(d.trimmedPhone())
	if phone < MinPhoneLength || phone > MaxPhoneLength {
		return nil, ErrInvalidPhone
	}
	if len(d.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Item, 0, len(d.Items))
	for _, di := range d.Items {
		sizes := catalog.SizeQuantities(di.SizeQuantities).Positive()
		if len(sizes) == 0 {
			return nil, ZeroQuantityError(di.Name)
		}
		if len(sizes.Exceeding()) > 0 {
			return nil, QuantityTooLargeError(di.Name)
		}
		items = append(items, Item{
			ProductID:      di.ProductID,
			Name:           di.Name,
			UnitPrice:      di.UnitPrice,
			SizeQuantities: sizes,
		})
	}
	return items, nil
}
