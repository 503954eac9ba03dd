package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/domain/analytics"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/persistence"
)

func newProduct(t *testing.T, name, price, category string, sizes ...string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, decimal.RequireFromString(price))
	require.NoError(t, err)
	p.SetSizes(sizes)
	p.SetDetails(catalog.Details{Category: category})
	return p
}

func TestRepositories_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	products := persistence.NewGormProductRepository(tdb.DB)
	orders := persistence.NewGormOrderRepository(tdb.DB)
	logs := persistence.NewGormUserLogRepository(tdb.DB)

	classic := newProduct(t, "Classic Collar", "12.50", "dogs", "S", "M")
	reflective := newProduct(t, "Reflective Collar", "20.00", "dogs", "M", "L")
	bell := newProduct(t, "Cat Bell Collar", "8.00", "cats")
	for _, p := range []*catalog.Product{classic, reflective, bell} {
		require.NoError(t, products.Save(ctx, p))
		require.NotZero(t, p.ID)
	}

	t.Run("search by text, category and price", func(t *testing.T) {
		minPrice := decimal.RequireFromString("10")
		found, hasMore, err := products.Search(ctx, catalog.SearchFilter{
			Query:    "collar",
			Category: "dogs",
			MinPrice: &minPrice,
			Sort:     catalog.SortPriceDesc,
		})
		require.NoError(t, err)
		assert.False(t, hasMore)
		require.Len(t, found, 2)
		assert.Equal(t, "Reflective Collar", found[0].Name)
		assert.Equal(t, []string{"M", "L"}, found[0].Sizes)
	})

	t.Run("search pages with has more", func(t *testing.T) {
		found, hasMore, err := products.Search(ctx, catalog.SearchFilter{Sort: catalog.SortPriceAsc, Limit: 2})
		require.NoError(t, err)
		assert.True(t, hasMore)
		require.Len(t, found, 2)
		assert.Equal(t, "Cat Bell Collar", found[0].Name)
	})

	t.Run("categories and views", func(t *testing.T) {
		cats, err := products.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"cats", "dogs"}, cats)

		require.NoError(t, products.IncrementViews(ctx, bell.ID))
		got, err := products.FindByID(ctx, bell.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, got.ViewsCount)

		_, err = products.FindByID(ctx, 999999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("order round trip and status update", func(t *testing.T) {
		o, err := order.NewOrder(order.NewDraft("Anna", "+375291234567", []order.DraftItem{
			{ProductID: classic.ID, Name: classic.Name, UnitPrice: classic.RetailPrice, SizeQuantities: map[string]int{"S": 2, "M": 0}},
		}, decimal.RequireFromString("25")))
		require.NoError(t, err)
		require.NoError(t, orders.Create(ctx, o))
		require.NotZero(t, o.ID)
		assert.False(t, o.CreatedAt.IsZero())

		stored, err := orders.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusNew, stored.Status)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, map[string]int{"S": 2}, map[string]int(stored.Items[0].SizeQuantities))
		assert.True(t, stored.TotalPrice.Equal(decimal.RequireFromString("25")))

		require.NoError(t, orders.UpdateStatus(ctx, o.ID, order.StatusCompleted))
		filter := shared.DefaultFilter()
		filter.Filters["status"] = order.StatusCompleted
		count, err := orders.Count(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		assert.ErrorIs(t, orders.UpdateStatus(ctx, 999999, order.StatusNew), shared.ErrNotFound)
	})

	t.Run("user logs aggregate by distinct session", func(t *testing.T) {
		for _, sid := range []string{"s1", "s1", "s2"} {
			require.NoError(t, logs.Append(ctx, analytics.NewViewLog(sid, classic.ID, classic.Name, analytics.SourceDirectLink)))
		}
		entry, err := analytics.NewSearchLog("s1", "Collar", 3)
		require.NoError(t, err)
		require.NoError(t, logs.Append(ctx, entry))

		top, err := logs.TopViewedProducts(ctx, analytics.Window{Limit: 10})
		require.NoError(t, err)
		require.NotEmpty(t, top)
		assert.Equal(t, classic.ID, top[0].ProductID)
		assert.EqualValues(t, 2, top[0].Sessions)

		totals, err := logs.Totals(ctx, analytics.Window{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, totals.Views)
		assert.EqualValues(t, 1, totals.Searches)
	})
}
