// Package catalog navegación del catálogo: filtros, orden, paginación,
// categorías y estadísticas.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
)

// Campos de orden.
const (
	SortByName     = "name"
	SortByPrice    = "price"
	SortByStock    = "stock"
	SortByCategory = "category"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query parámetros de navegación.
type Query struct {
	Filters state.Filters
	SortBy  string
	Order   string
	Page    dto.PageRequest
}

type CatalogUseCase struct {
	store    *state.Store
	products ports.ProductSource
	policy   pricing.Policy
}

func NewCatalogUseCase(store *state.Store, products ports.ProductSource, policy pricing.Policy) *CatalogUseCase {
	if policy.Rules == nil {
		policy = pricing.DefaultPolicy()
	}
	return &CatalogUseCase{store: store, products: products, policy: policy}
}

// Browse aplica filtros, orden y paginación sobre los productos activos.
// Los filtros quedan registrados en el estado.
func (uc *CatalogUseCase) Browse(ctx context.Context, q Query) (dto.ProductListResponse, error) {
	products, err := uc.products.Products(ctx)
	if err != nil {
		return dto.ProductListResponse{}, err
	}
	if err := uc.store.Dispatch(state.SetFilters{Patch: state.FiltersPatch{
		Category: state.Some(q.Filters.Category),
		Search:   state.Some(q.Filters.Search),
		MinPrice: state.Some(q.Filters.MinPrice),
		MaxPrice: state.Some(q.Filters.MaxPrice),
		InStock:  state.Some(q.Filters.InStock),
	}}); err != nil {
		return dto.ProductListResponse{}, err
	}

	active := slices.DeleteFunc(slices.Clone(products), func(p entity.Product) bool { return !p.IsActive })
	list := Filter(active, q.Filters)
	Sort(list, q.SortBy, q.Order)
	pageItems, page := Paginate(list, q.Page)

	user := uc.store.State().User
	out := dto.ProductListResponse{Items: make([]dto.ProductView, 0, len(pageItems)), Page: page}
	for _, p := range pageItems {
		out.Items = append(out.Items, uc.view(p, user))
	}
	return out, nil
}

// Product vista de un producto por código.
func (uc *CatalogUseCase) Product(ctx context.Context, code string) (dto.ProductView, error) {
	products, err := uc.products.Products(ctx)
	if err != nil {
		return dto.ProductView{}, err
	}
	p, ok := entity.FindProduct(products, code)
	if !ok || !p.IsActive {
		return dto.ProductView{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, code)
	}
	return uc.view(p, uc.store.State().User), nil
}

func (uc *CatalogUseCase) view(p entity.Product, u *entity.User) dto.ProductView {
	discounted := uc.policy.DiscountedPrice(p, u)
	return dto.ProductView{
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Price:           p.Price,
		DiscountedPrice: discounted,
		FormattedPrice:  helpers.FormatPrice(discounted),
		Stock:           p.Stock,
		StockStatus:     p.StockStatus(),
		StockStatusText: p.StockStatusText(),
		Image:           p.Image,
	}
}

// Categories categorías únicas en orden alfabético español.
func (uc *CatalogUseCase) Categories(ctx context.Context) ([]string, error) {
	products, err := uc.products.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(products), nil
}

// Stats resumen del catálogo completo.
func (uc *CatalogUseCase) Stats(ctx context.Context) (dto.ProductStats, error) {
	products, err := uc.products.Products(ctx)
	if err != nil {
		return dto.ProductStats{}, err
	}
	return Stats(products), nil
}

// Filter devuelve los productos que cumplen todos los criterios. La búsqueda
// no distingue mayúsculas y cubre nombre, descripción, categoría y código.
func Filter(products []entity.Product, f state.Filters) []entity.Product {
	search := strings.TrimSpace(f.Search)
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		switch {
		case f.Category != "" && p.Category != f.Category:
			continue
		case f.MinPrice.Valid && p.Price.LessThan(f.MinPrice.Decimal):
			continue
		case f.MaxPrice.Valid && p.Price.GreaterThan(f.MaxPrice.Decimal):
			continue
		case f.InStock && !p.InStock():
			continue
		case search != "" && !helpers.ContainsFold(p.Name+" "+p.Description+" "+p.Category+" "+p.Code, search):
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort ordena en sitio (estable). Campo desconocido ordena por nombre.
func Sort(products []entity.Product, by, order string) {
	c := collate.New(language.Spanish, collate.IgnoreCase)
	var cmp func(a, b entity.Product) int
	switch by {
	case SortByPrice:
		cmp = func(a, b entity.Product) int { return a.Price.Cmp(b.Price) }
	case SortByStock:
		cmp = func(a, b entity.Product) int { return a.Stock - b.Stock }
	case SortByCategory:
		cmp = func(a, b entity.Product) int { return c.CompareString(a.Category, b.Category) }
	default:
		cmp = func(a, b entity.Product) int { return c.CompareString(a.Name, b.Name) }
	}
	if order == OrderDesc {
		asc := cmp
		cmp = func(a, b entity.Product) int { return asc(b, a) }
	}
	slices.SortStableFunc(products, cmp)
}

// Paginate corta la página pedida (desde 1).
func Paginate[T any](items []T, req dto.PageRequest) ([]T, dto.PageResponse) {
	req.DefaultPage()
	total := len(items)
	pages := total / req.PageSize
	if total%req.PageSize != 0 {
		pages++
	}
	resp := dto.PageResponse{Page: req.Page, PageSize: req.PageSize, Total: total, TotalPages: pages}
	// comparar antes de multiplicar: Page puede venir cerca de MaxInt
	if req.Page-1 >= pages {
		return []T{}, resp
	}
	start := (req.Page - 1) * req.PageSize
	end := min(start+req.PageSize, total)
	return items[start:end], resp
}

// Categories categorías únicas ordenadas.
func Categories(products []entity.Product) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	helpers.SortSpanish(out)
	return out
}

// Stats total, productos por categoría, valor de inventario y stock bajo.
func Stats(products []entity.Product) dto.ProductStats {
	st := dto.ProductStats{
		Total:      len(products),
		Categories: make(map[string]int),
		TotalValue: decimal.Zero,
	}
	for _, p := range products {
		st.Categories[p.Category]++
		st.TotalValue = st.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.IsLowStock() {
			st.LowStock++
		}
	}
	return st
}
