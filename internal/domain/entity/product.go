package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DefaultCriticalStock umbral de stock bajo cuando el producto no define uno.
const DefaultCriticalStock = 5

// DefaultProductImage imagen usada cuando el producto no trae una.
const DefaultProductImage = "default-product.webp"

// Estados de stock.
const (
	StockOut = "out_of_stock"
	StockLow = "low_stock"
	StockIn  = "in_stock"
)

// Product producto del catálogo. Code es el identificador único y es el que
// referencian las líneas del carrito.
type Product struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	CriticalStock int             `json:"criticalStock"`
	Image         string          `json:"image,omitempty"`
	IsActive      bool            `json:"isActive"`
}

type productAlias Product

// MarshalJSON serializa price como número, igual que las fuentes de datos estáticas.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		productAlias
		Price json.Number `json:"price"`
	}{productAlias(p), json.Number(p.Price.String())})
}

// UnmarshalJSON acepta price como número o string; isActive ausente equivale a true.
func (p *Product) UnmarshalJSON(data []byte) error {
	aux := struct {
		*productAlias
		IsActive *bool `json:"isActive"`
	}{productAlias: (*productAlias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.IsActive = aux.IsActive == nil || *aux.IsActive
	return nil
}

// LowStockThreshold criticalStock o el valor por defecto si no está definido.
func (p Product) LowStockThreshold() int {
	if p.CriticalStock <= 0 {
		return DefaultCriticalStock
	}
	return p.CriticalStock
}

func (p Product) IsOutOfStock() bool { return p.Stock <= 0 }
func (p Product) InStock() bool      { return p.Stock > 0 }
func (p Product) IsLowStock() bool   { return p.Stock <= p.LowStockThreshold() }

// StockStatus out_of_stock, low_stock o in_stock.
func (p Product) StockStatus() string {
	switch {
	case p.IsOutOfStock():
		return StockOut
	case p.IsLowStock():
		return StockLow
	default:
		return StockIn
	}
}

// StockStatusText texto visible del estado de stock.
func (p Product) StockStatusText() string {
	switch p.StockStatus() {
	case StockOut:
		return "Sin Stock"
	case StockLow:
		return "Stock Bajo"
	default:
		return "En Stock"
	}
}

// IsAvailable indica si se pueden vender quantity unidades.
func (p Product) IsAvailable(quantity int) bool {
	return p.IsActive && quantity > 0 && p.Stock >= quantity
}

// WithStock copia con el stock actualizado (nunca negativo).
func (p Product) WithStock(stock int) Product {
	p.Stock = max(0, stock)
	return p
}

// WithPrice copia con el precio actualizado (nunca negativo).
func (p Product) WithPrice(price decimal.Decimal) Product {
	if price.IsNegative() {
		price = decimal.Zero
	}
	p.Price = price
	return p
}

// FindProduct busca por código en un slice.
func FindProduct(products []Product, code string) (Product, bool) {
	for _, p := range products {
		if p.Code == code {
			return p, true
		}
	}
	return Product{}, false
}
