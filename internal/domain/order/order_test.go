package order

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func collarDraft() Draft {
	return NewDraft("Anna", "+375291234567", []DraftItem{
		{ProductID: 1, Name: "Collar", UnitPrice: dec("12.00"), SizeQuantities: map[string]int{"S": 2, "M": 1}},
	}, dec("36.00"))
}

func TestDraft_Validate_FailFastOrder(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{
			name:    "name checked before phone and items",
			draft:   NewDraft("A", "1", nil, decimal.Zero),
			wantErr: ErrInvalidCustomerName,
		},
		{
			name:    "whitespace only name",
			draft:   NewDraft("   ", "+375291234567", nil, decimal.Zero),
			wantErr: ErrInvalidCustomerName,
		},
		{
			name:    "name too long",
			draft:   NewDraft(strings.Repeat("я", 101), "+375291234567", nil, decimal.Zero),
			wantErr: ErrInvalidCustomerName,
		},
		{
			name:    "phone checked before items",
			draft:   NewDraft("Anna", " 12345 ", nil, decimal.Zero),
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "phone too long",
			draft:   NewDraft("Anna", strings.Repeat("1", MaxPhoneLength+1), nil, decimal.Zero),
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "empty items",
			draft:   NewDraft("Anna", "+375291234567", nil, decimal.Zero),
			wantErr: ErrEmptyCart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestDraft_Validate_NameBoundaries(t *testing.T) {
	d := collarDraft()

	d.CustomerName = "Ян"
	_, err := d.Validate()
	assert.NoError(t, err, "two characters is the minimum")

	d.CustomerName = strings.Repeat("я", 100)
	_, err = d.Validate()
	assert.NoError(t, err, "100 cyrillic characters counted as characters, not bytes")

	d.CustomerName = "  Я  "
	_, err = d.Validate()
	assert.ErrorIs(t, err, ErrInvalidCustomerName)
}

func TestDraft_Validate_PhoneBoundaries(t *testing.T) {
	d := collarDraft()

	d.CustomerPhone = strings.Repeat("1", MinPhoneLength)
	_, err := d.Validate()
	assert.NoError(t, err)

	d.CustomerPhone = " " + strings.Repeat("1", MaxPhoneLength) + " "
	_, err = d.Validate()
	assert.NoError(t, err, "50 characters after trimming fits the column")

	d.CustomerPhone = strings.Repeat("1", MaxPhoneLength+1)
	_, err = d.Validate()
	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.Equal(t, "invalid phone number", err.Error())
}

func TestDraft_Validate_QuantityAboveCapRejected(t *testing.T) {
	d := NewDraft("Anna", "1234567", []DraftItem{
		{ProductID: 1, Name: "Collar", UnitPrice: dec("12"), SizeQuantities: map[string]int{"S": math.MaxInt, "M": 1}},
	}, dec("12"))

	_, err := d.Validate()
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeQuantityTooLarge, de.Code)
	assert.Equal(t, "product Collar exceeds 1000 per size", err.Error())
	assert.True(t, IsValidationError(err))

	_, err = NewOrder(d)
	assert.Error(t, err)

	d.Items[0].SizeQuantities = map[string]int{"S": catalog.MaxQuantityPerSize, "M": 1}
	o, err := NewOrder(d)
	require.NoError(t, err)
	require.NoError(t, o.ApplyCatalogPrices(map[int64]decimal.Decimal{1: dec("12.00")}))
	assert.True(t, dec("12012").Equal(o.TotalPrice))
}

func TestDraft_Validate_DropsNonPositiveSizes(t *testing.T) {
	d := NewDraft("Anna", "1234567", []DraftItem{
		{ProductID: 1, Name: "Collar", UnitPrice: dec("10"), SizeQuantities: map[string]int{"S": 0, "M": 3, "L": -1}},
	}, dec("30"))

	items, err := d.Validate()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, catalog.SizeQuantities{"M": 3}, items[0].SizeQuantities)
}

func TestDraft_Validate_ZeroQuantityRejectsWholeOrder(t *testing.T) {
	d := NewDraft("Anna", "1234567", []DraftItem{
		{ProductID: 1, Name: "Collar", UnitPrice: dec("10"), SizeQuantities: map[string]int{"M": 1}},
		{ProductID: 2, Name: "Leash", UnitPrice: dec("5"), SizeQuantities: map[string]int{"S": 0}},
	}, dec("10"))

	_, err := d.Validate()
	require.Error(t, err)
	assert.Equal(t, "product Leash has zero quantity", err.Error())
	assert.True(t, IsValidationError(err))
}

func TestNewOrder(t *testing.T) {
	d := collarDraft()
	d.CustomerName = "  Anna  "

	o, err := NewOrder(d)
	require.NoError(t, err)

	assert.Equal(t, "Anna", o.CustomerName)
	assert.Equal(t, StatusNew, o.Status)
	assert.True(t, o.IsNew())
	assert.True(t, dec("36.00").Equal(o.TotalPrice))
	assert.True(t, dec("36").Equal(o.ComputedTotal()))
	assert.Equal(t, 3, o.Items[0].Quantity())
}

func TestOrder_ApplyCatalogPrices(t *testing.T) {
	d := collarDraft()
	d.Items[0].UnitPrice = dec("1.00")
	d.DeclaredTotal = dec("3.00")

	o, err := NewOrder(d)
	require.NoError(t, err)

	require.NoError(t, o.ApplyCatalogPrices(map[int64]decimal.Decimal{1: dec("12.00")}))
	assert.True(t, dec("12").Equal(o.Items[0].UnitPrice))
	assert.True(t, dec("36").Equal(o.TotalPrice))

	err = o.ApplyCatalogPrices(map[int64]decimal.Decimal{})
	require.Error(t, err)
	assert.Equal(t, "product Collar is no longer available", err.Error())
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeProductUnavailable, de.Code)
}

func TestOrder_ProductIDs(t *testing.T) {
	o := &Order{Items: []Item{{ProductID: 3}, {ProductID: 1}, {ProductID: 3}}}
	assert.Equal(t, []int64{3, 1}, o.ProductIDs())
}

func TestOrder_MarkPlaced(t *testing.T) {
	o, err := NewOrder(collarDraft())
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o.ID = 42
	o.CreatedAt = at
	o.MarkPlaced()

	assert.Equal(t, int64(42), o.ID)
	assert.Equal(t, at, o.CreatedAt)
	assert.Equal(t, "#42", o.Reference())

	events := o.PendingEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeOrderPlaced, placed.EventType())
	assert.Equal(t, "42", placed.AggregateID())
	assert.Equal(t, int64(42), placed.OrderID)
}

func TestOrder_SetStatus(t *testing.T) {
	o := &Order{Status: StatusNew}

	require.NoError(t, o.SetStatus(StatusCompleted))
	assert.Equal(t, StatusCompleted, o.Status)
	require.Len(t, o.PendingEvents(), 1)

	require.NoError(t, o.SetStatus(StatusCompleted))
	assert.Len(t, o.PendingEvents(), 1, "same status raises nothing")

	require.NoError(t, o.SetStatus(StatusNew))
	assert.Equal(t, StatusNew, o.Status)

	err := o.SetStatus(Status("shipped"))
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.False(t, IsValidationError(err))
}
