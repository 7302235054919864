package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine línea del carrito; ProductID coincide con Product.Code.
// Quantity siempre es >= 1: una línea con cantidad menor se elimina.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartLinePatch cambios parciales sobre una línea (UPDATE_CART_ITEM).
type CartLinePatch struct {
	Quantity *int `json:"quantity,omitempty"`
}

// OrderLine línea valorizada al momento de la compra.
type OrderLine struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Discounted decimal.Decimal `json:"discountedPrice"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
}

// Order compra simulada generada en el checkout.
type Order struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	UserEmail    string          `json:"userEmail"`
	UserName     string          `json:"userName"`
	Lines        []OrderLine     `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ContactMessage mensaje enviado desde el formulario de contacto.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Comment   string    `json:"comment"`
	Status    string    `json:"status"` // unread | read
	CreatedAt time.Time `json:"createdAt"`
}
