package catalog

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
)

type staticProducts []entity.Product

func (s staticProducts) Products(context.Context) ([]entity.Product, error) { return s, nil }

func prod(code, name, category string, price int64, stock int) entity.Product {
	return entity.Product{Code: code, Name: name, Category: category, Price: decimal.NewFromInt(price), Stock: stock, IsActive: true}
}

var products = staticProducts{
	prod("JM001", "Catan", "Juegos de Mesa", 29990, 10),
	prod("JM002", "Carcassonne", "Juegos de Mesa", 24990, 3),
	prod("AC001", "Control Xbox", "Accesorios", 59990, 0),
	prod("CO001", "PlayStation 5", "Consolas", 549990, 7),
	prod("MS001", "Mouse Logitech", "Mouse", 49990, 20),
	{Code: "OLD", Name: "Descontinuado", Category: "Ñandú", Price: decimal.NewFromInt(1), Stock: 1},
}

func codes(ps []entity.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Code
	}
	return out
}

func TestFilter(t *testing.T) {
	cases := []struct {
		name string
		f    state.Filters
		want []string
	}{
		{"categoría", state.Filters{Category: "Juegos de Mesa"}, []string{"JM001", "JM002"}},
		{"búsqueda sin mayúsculas", state.Filters{Search: "LOGITECH"}, []string{"MS001"}},
		{"búsqueda por código", state.Filters{Search: "co001"}, []string{"CO001"}},
		{"con stock", state.Filters{InStock: true, Category: "Accesorios"}, []string{}},
		{"rango de precio", state.Filters{
			MinPrice: decimal.NewNullDecimal(decimal.NewFromInt(25000)),
			MaxPrice: decimal.NewNullDecimal(decimal.NewFromInt(60000)),
		}, []string{"JM001", "AC001", "MS001"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, codes(Filter(products, tc.f)))
		})
	}
}

func TestSort(t *testing.T) {
	list := Filter(products[:5], state.Filters{})

	Sort(list, SortByPrice, OrderAsc)
	assert.Equal(t, []string{"JM002", "JM001", "MS001", "AC001", "CO001"}, codes(list))

	Sort(list, SortByStock, OrderDesc)
	assert.Equal(t, []string{"MS001", "JM001", "CO001", "JM002", "AC001"}, codes(list))

	Sort(list, SortByName, OrderAsc)
	assert.Equal(t, []string{"JM002", "JM001", "AC001", "MS001", "CO001"}, codes(list))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}
	page, meta := Paginate(items, dto.PageRequest{Page: 3})
	assert.Equal(t, []int{24, 25, 26, 27, 28, 29}, page)
	assert.Equal(t, dto.PageResponse{Page: 3, PageSize: 12, Total: 30, TotalPages: 3}, meta)

	page, _ = Paginate(items, dto.PageRequest{Page: 9})
	assert.Empty(t, page)
}

func TestPaginate_ValoresExtremosNoDesbordan(t *testing.T) {
	items := []int{1, 2, 3}

	page, meta := Paginate(items, dto.PageRequest{Page: math.MaxInt, PageSize: 12})
	assert.Empty(t, page)
	assert.Equal(t, dto.PageResponse{Page: math.MaxInt, PageSize: 12, Total: 3, TotalPages: 1}, meta)

	page, meta = Paginate(items, dto.PageRequest{Page: 2, PageSize: math.MaxInt})
	assert.Empty(t, page)
	assert.Equal(t, dto.PageResponse{Page: 2, PageSize: dto.MaxPageSize, Total: 3, TotalPages: 1}, meta)

	page, meta = Paginate(items, dto.PageRequest{Page: 1, PageSize: math.MaxInt})
	assert.Equal(t, []int{1, 2, 3}, page)
	assert.Equal(t, 1, meta.TotalPages)

	page, meta = Paginate([]int{}, dto.PageRequest{Page: math.MaxInt})
	assert.Empty(t, page)
	assert.Zero(t, meta.TotalPages)
}

func TestCategoriesYStats(t *testing.T) {
	assert.Equal(t, []string{"Accesorios", "Consolas", "Juegos de Mesa", "Mouse", "Ñandú"}, Categories(products))

	st := Stats(products)
	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 2, st.Categories["Juegos de Mesa"])
	assert.Equal(t, 3, st.LowStock, "JM002, AC001 y OLD")
	want := decimal.NewFromInt(29990*10 + 24990*3 + 549990*7 + 49990*20 + 1)
	assert.True(t, want.Equal(st.TotalValue), st.TotalValue.String())
}

func TestBrowse(t *testing.T) {
	store := state.New()
	require.NoError(t, store.Dispatch(state.SetState{Patch: state.StatePatch{
		User: state.Some(&entity.User{Email: "alumno@duoc.cl"}),
	}}))
	uc := NewCatalogUseCase(store, products, pricing.DefaultPolicy())

	res, err := uc.Browse(context.Background(), Query{
		Filters: state.Filters{Category: "Juegos de Mesa"},
		SortBy:  SortByPrice,
		Order:   OrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "JM001", res.Items[0].Code)
	assert.True(t, decimal.NewFromInt(20993).Equal(res.Items[0].DiscountedPrice), res.Items[0].DiscountedPrice.String())
	assert.Equal(t, "Stock Bajo", res.Items[1].StockStatusText)
	assert.Equal(t, "Juegos de Mesa", store.State().Filters.Category)

	all, err := uc.Browse(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, 5, all.Page.Total, "los inactivos no se publican")

	_, err = uc.Product(context.Background(), "OLD")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	v, err := uc.Product(context.Background(), "AC001")
	require.NoError(t, err)
	assert.Equal(t, "Sin Stock", v.StockStatusText)
}
