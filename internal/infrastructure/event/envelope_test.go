package event

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/order"
)

func TestSerializer_EncodeDecode(t *testing.T) {
	o := &order.Order{
		CustomerName:  "Anna",
		CustomerPhone: "+375291234567",
		Items: []order.Item{{
			ProductID:      3,
			Name:           "Collar",
			UnitPrice:      decimal.RequireFromString("12.50"),
			SizeQuantities: catalog.SizeQuantities{"M": 2},
		}},
		TotalPrice: decimal.NewFromInt(25),
		Status:     order.StatusNew,
	}
	o.ID = 42
	ev := order.NewOrderPlacedEvent(o)

	s := NewSerializer()
	data, err := s.Encode(ev)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "order.created", env.Type)
	assert.Equal(t, "Order", env.AggregateType)
	assert.Equal(t, "42", env.AggregateID)
	assert.Equal(t, ev.EventID(), env.ID)

	decoded, err := s.Decode(data)
	require.NoError(t, err)
	placed, ok := decoded.(*order.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(42), placed.OrderID)
	assert.True(t, placed.TotalPrice.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 2, placed.Items[0].SizeQuantities["M"])
}

func TestSerializer_UnknownType(t *testing.T) {
	s := NewSerializer()
	_, err := s.Decode([]byte(`{"type":"nope","payload":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")

	_, err = s.Decode([]byte(`not json`))
	assert.Error(t, err)
}
