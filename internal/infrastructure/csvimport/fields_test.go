package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields(t *testing.T) {
	row := &Row{Line: 7, Data: map[string]string{
		"name":      "Reflective collar",
		"price":     "12,5",
		"bad_price": "twelve",
		"is_new":    "да",
		"is_hit":    "maybe",
		"sizes":     "S| M ||L",
	}}
	errs := NewErrorCollection(10)
	f := NewFields(row, errs)

	assert.Equal(t, "Reflective collar", f.String("name", true, 200))
	assert.Equal(t, "", f.String("category", false, 100))
	assert.False(t, errs.HasErrors())

	price := f.Decimal("price", true)
	require.NotNil(t, price)
	assert.Equal(t, "12.5", price.String())
	assert.Nil(t, f.Decimal("wholesale", false))

	assert.True(t, f.Bool("is_new"))
	assert.False(t, f.Bool("is_bestseller"))
	assert.Equal(t, []string{"S", "M", "L"}, f.List("sizes"))
	assert.Nil(t, f.List("missing"))

	assert.Nil(t, f.Decimal("bad_price", true))
	f.Bool("is_hit")
	f.String("description", true, 0)
	f.String("name", false, 5)

	require.Equal(t, 4, errs.Total())
	codes := make([]string, 0, 4)
	for _, e := range errs.Errors() {
		assert.Equal(t, 7, e.Row)
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{CodeInvalidFormat, CodeInvalidFormat, CodeRequired, CodeTooLong}, codes)
	assert.Equal(t, 1, errs.Rows())
}

func TestErrorCollection_Truncates(t *testing.T) {
	errs := NewErrorCollection(2)
	for i := 1; i <= 3; i++ {
		errs.Required(i, "name")
	}
	assert.Len(t, errs.Errors(), 2)
	assert.Equal(t, 3, errs.Total())
	assert.Equal(t, 3, errs.Rows())
	assert.True(t, errs.IsTruncated())
	assert.True(t, strings.Contains(errs.Errors()[0].Error(), "row 1, column 'name'"))

	assert.Empty(t, NewErrorCollection(0).Errors())
}
