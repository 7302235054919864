package dto

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
)

// CreateProductRequest alta de producto. Code vacío genera uno nuevo.
type CreateProductRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	CriticalStock *int            `json:"criticalStock"`
	Image         string          `json:"image"`
}

// Form campos para el validador; sin stock crítico se valida el valor por defecto.
func (r CreateProductRequest) Form() validation.FormData {
	critical := entity.DefaultCriticalStock
	if r.CriticalStock != nil {
		critical = *r.CriticalStock
	}
	return validation.FormData{
		"name":          r.Name,
		"description":   r.Description,
		"category":      r.Category,
		"price":         r.Price.String(),
		"stock":         strconv.Itoa(r.Stock),
		"criticalStock": strconv.Itoa(critical),
	}
}

// UpdateProductRequest cambios parciales sobre un producto.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock"`
	CriticalStock *int             `json:"criticalStock"`
	Image         *string          `json:"image"`
	IsActive      *bool            `json:"isActive"`
}

// ProductView producto tal como se muestra en la tienda.
type ProductView struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	FormattedPrice  string          `json:"formattedPrice"`
	Stock           int             `json:"stock"`
	StockStatus     string          `json:"stockStatus"`
	StockStatusText string          `json:"stockStatusText"`
	Image           string          `json:"image"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductView `json:"items"`
	Page  PageResponse  `json:"page"`
}

// ProductStats resumen del catálogo.
type ProductStats struct {
	Total      int             `json:"total"`
	Categories map[string]int  `json:"categories"`
	TotalValue decimal.Decimal `json:"totalValue"`
	LowStock   int             `json:"lowStock"`
}
