package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/application/catalog"
	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

// ProductHandler catálogo público.
type ProductHandler struct {
	uc   *catalog.CatalogUseCase
	errs *ErrorWriter
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.CatalogUseCase, errs *ErrorWriter) *ProductHandler {
	return &ProductHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        category  query  string  false  "Categoría exacta"
// @Param        search    query  string  false  "Texto a buscar"
// @Param        minPrice  query  number  false  "Precio mínimo"
// @Param        maxPrice  query  number  false  "Precio máximo"
// @Param        inStock   query  bool    false  "Solo con stock"
// @Param        sortBy    query  string  false  "name | price | stock | category"
// @Param        order     query  string  false  "asc | desc"
// @Param        page      query  int     false  "Página (desde 1)"
// @Param        pageSize  query  int     false  "Tamaño de página (12, máximo 100)"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.Browse(c.UserContext(), q)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

func parseQuery(c *fiber.Ctx) (catalog.Query, error) {
	q := catalog.Query{
		Filters: state.Filters{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			InStock:  c.QueryBool("inStock", false),
		},
		SortBy: c.Query("sortBy", catalog.SortByName),
		Order:  strings.ToLower(c.Query("order", catalog.OrderAsc)),
		Page: dto.PageRequest{
			Page:     c.QueryInt("page", 1),
			PageSize: c.QueryInt("pageSize", dto.DefaultPageSize),
		},
	}
	for key, dst := range map[string]*decimal.NullDecimal{
		"minPrice": &q.Filters.MinPrice,
		"maxPrice": &q.Filters.MaxPrice,
	} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return q, domain.NewValidationError(map[string][]string{key: {"Debe ser un número válido"}})
		}
		*dst = decimal.NewNullDecimal(d)
	}
	return q, nil
}

// GetByCode godoc
// @Summary      Obtener producto por código
// @Tags         products
// @Produce      json
// @Param        code  path  string  true  "Código del producto"
// @Success      200  {object}  dto.ProductView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{code} [get]
func (h *ProductHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.Product(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Categorías del catálogo
// @Tags         products
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Resumen del catálogo
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductStats
// @Router       /api/products/stats [get]
func (h *ProductHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}
