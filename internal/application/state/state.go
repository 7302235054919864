// Package state contenedor de estado global de la tienda: un reducer puro
// sobre AppState, suscriptores con selectores y un historial acotado para undo.
package state

import (
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

// Filters criterios de búsqueda del catálogo (no se persisten).
type Filters struct {
	Category string              `json:"category"`
	Search   string              `json:"search"`
	MinPrice decimal.NullDecimal `json:"minPrice"`
	MaxPrice decimal.NullDecimal `json:"maxPrice"`
	InStock  bool                `json:"inStock"`
}

// ErrorInfo último error registrado en el estado.
type ErrorInfo struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// UI preferencias de interfaz.
type UI struct {
	Theme       string `json:"theme"`
	Language    string `json:"language"`
	SidebarOpen bool   `json:"sidebarOpen"`
}

// AppState estado completo. El Store nunca lo modifica en sitio: cada
// transición produce un valor nuevo.
type AppState struct {
	User     *entity.User      `json:"user"`
	Cart     []entity.CartLine `json:"cart"`
	Products []entity.Product  `json:"products"`
	Filters  Filters           `json:"filters"`
	Loading  map[string]bool   `json:"loading"`
	Error    *ErrorInfo        `json:"error"`
	UI       UI                `json:"ui"`
}

// InitialState estado inicial de la tienda.
func InitialState() AppState {
	return AppState{
		Cart:     []entity.CartLine{},
		Products: []entity.Product{},
		Loading:  map[string]bool{},
		UI:       UI{Theme: "dark", Language: "es"},
	}
}

// Clone copia profunda.
func (s AppState) Clone() AppState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Cart = slices.Clone(s.Cart)
	out.Products = slices.Clone(s.Products)
	out.Loading = maps.Clone(s.Loading)
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}
