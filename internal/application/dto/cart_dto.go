package dto

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
)

// CartItemRequest agregar un producto al carrito.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (r CartItemRequest) Form() validation.FormData {
	return validation.FormData{"productId": r.ProductID, "quantity": strconv.Itoa(r.Quantity)}
}

// CartLineView línea valorizada del carrito.
type CartLineView struct {
	ProductID       string          `json:"productId"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Image           string          `json:"image"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	LowStock        bool            `json:"lowStock"`
	CanIncrease     bool            `json:"canIncrease"`
}

// CartSummaryResponse resumen del carrito (mismos totales que la vista).
type CartSummaryResponse struct {
	Lines             []CartLineView  `json:"lines"`
	Items             int             `json:"items"`
	TotalItems        int             `json:"totalItems"`
	DiscountRate      decimal.Decimal `json:"discountRate"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Discount          decimal.Decimal `json:"discount"`
	Total             decimal.Decimal `json:"total"`
	FormattedSubtotal string          `json:"formattedSubtotal"`
	FormattedDiscount string          `json:"formattedDiscount"`
	FormattedTotal    string          `json:"formattedTotal"`
}
