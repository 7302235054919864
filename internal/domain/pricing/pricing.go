// Package pricing calcula precios con descuento y los totales del carrito.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
)

// Rule fuente de descuento; Applies recibe el usuario autenticado (nunca nil).
type Rule struct {
	Name    string
	Rate    decimal.Decimal
	Applies func(u *entity.User) bool
}

// Policy suma las reglas que aplican y limita el total a Cap.
type Policy struct {
	Rules []Rule
	Cap   decimal.Decimal
}

// DefaultDuocDomains dominios que reciben el descuento Duoc.
var DefaultDuocDomains = []string{"@duoc.cl", "@profesor.duoc.cl"}

// NewPolicy política de la tienda: usuario registrado + correo Duoc, con tope.
func NewPolicy(registered, duoc, limit decimal.Decimal, duocDomains []string) Policy {
	if len(duocDomains) == 0 {
		duocDomains = DefaultDuocDomains
	}
	return Policy{
		Rules: []Rule{
			{
				Name:    "registered",
				Rate:    registered,
				Applies: func(*entity.User) bool { return true },
			},
			{
				Name: "duoc",
				Rate: duoc,
				Applies: func(u *entity.User) bool {
					return helpers.HasEmailDomain(u.Email, duocDomains)
				},
			},
		},
		Cap: limit,
	}
}

// DefaultPolicy 10% registrado, 20% Duoc, tope 50%.
func DefaultPolicy() Policy {
	return NewPolicy(
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("0.50"),
		nil,
	)
}

// Rate fracción de descuento para el usuario; 0 sin usuario.
func (p Policy) Rate(u *entity.User) decimal.Decimal {
	if u == nil {
		return decimal.Zero
	}
	rate := decimal.Zero
	for _, r := range p.Rules {
		if r.Applies != nil && r.Applies(u) {
			rate = rate.Add(r.Rate)
		}
	}
	return decimal.Min(rate, p.Cap)
}

// UnitPrice precio unitario con la fracción de descuento aplicada.
func UnitPrice(price, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(rate))
}

// DiscountedPrice precio del producto para el usuario.
func (p Policy) DiscountedPrice(product entity.Product, u *entity.User) decimal.Decimal {
	return UnitPrice(product.Price, p.Rate(u))
}

// Line línea valorizada.
type Line struct {
	Product    entity.Product
	Quantity   int
	UnitPrice  decimal.Decimal // precio de lista
	Discounted decimal.Decimal // precio unitario con descuento
	Subtotal   decimal.Decimal // Discounted × Quantity
	Discount   decimal.Decimal // (UnitPrice - Discounted) × Quantity
}

// Summary totales del carrito. Total es igual a Subtotal: el subtotal ya
// incluye el descuento.
type Summary struct {
	Lines      []Line
	Items      int // líneas
	TotalItems int // unidades
	Rate       decimal.Decimal
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
}

// Quote valoriza el carrito contra el catálogo. Las líneas cuyo producto no
// existe en el catálogo se omiten de los totales.
func (p Policy) Quote(cart []entity.CartLine, catalog []entity.Product, u *entity.User) Summary {
	rate := p.Rate(u)
	byCode := make(map[string]entity.Product, len(catalog))
	for _, prod := range catalog {
		byCode[prod.Code] = prod
	}

	s := Summary{
		Items:    len(cart),
		Rate:     rate,
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}
	for _, cl := range cart {
		prod, ok := byCode[cl.ProductID]
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(int64(cl.Quantity))
		unit := UnitPrice(prod.Price, rate)
		line := Line{
			Product:    prod,
			Quantity:   cl.Quantity,
			UnitPrice:  prod.Price,
			Discounted: unit,
			Subtotal:   unit.Mul(qty),
			Discount:   prod.Price.Sub(unit).Mul(qty),
		}
		s.Lines = append(s.Lines, line)
		s.TotalItems += cl.Quantity
		s.Subtotal = s.Subtotal.Add(line.Subtotal)
		s.Discount = s.Discount.Add(line.Discount)
	}
	s.Total = s.Subtotal
	return s
}
