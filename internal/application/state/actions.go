package state

import (
	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

// ActionType nombre de la acción, visible para suscriptores y logs.
type ActionType string

const (
	TypeSetState       ActionType = "SET_STATE"
	TypeUpdateUser     ActionType = "UPDATE_USER"
	TypeClearUser      ActionType = "CLEAR_USER"
	TypeSetCart        ActionType = "SET_CART"
	TypeAddToCart      ActionType = "ADD_TO_CART"
	TypeRemoveFromCart ActionType = "REMOVE_FROM_CART"
	TypeUpdateCartItem ActionType = "UPDATE_CART_ITEM"
	TypeClearCart      ActionType = "CLEAR_CART"
	TypeSetProducts    ActionType = "SET_PRODUCTS"
	TypeSetFilters     ActionType = "SET_FILTERS"
	TypeSetLoading     ActionType = "SET_LOADING"
	TypeSetError       ActionType = "SET_ERROR"
	TypeClearError     ActionType = "CLEAR_ERROR"
	TypeResetState     ActionType = "RESET_STATE"
	TypeUndo           ActionType = "UNDO"
)

// Action variante cerrada: sólo los tipos de este paquete la implementan.
type Action interface {
	Type() ActionType
	action()
}

// Opt valor opcional para los parches: Set indica que el campo viene.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some marca el valor como presente.
func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Set: true} }

func (o Opt[T]) apply(dst *T) {
	if o.Set {
		*dst = o.Value
	}
}

// StatePatch merge superficial sobre AppState.
type StatePatch struct {
	User     Opt[*entity.User]
	Cart     Opt[[]entity.CartLine]
	Products Opt[[]entity.Product]
	Filters  Opt[Filters]
	Loading  Opt[map[string]bool]
	Error    Opt[*ErrorInfo]
	UI       Opt[UI]
}

// UserPatch merge superficial sobre el usuario.
type UserPatch struct {
	ID        Opt[string]
	Run       Opt[string]
	Name      Opt[string]
	LastName  Opt[string]
	Email     Opt[string]
	BirthDate Opt[string]
	Role      Opt[string]
	Address   Opt[string]
	Region    Opt[string]
	Commune   Opt[string]
}

// FiltersPatch merge superficial sobre los filtros.
type FiltersPatch struct {
	Category Opt[string]
	Search   Opt[string]
	MinPrice Opt[decimal.NullDecimal]
	MaxPrice Opt[decimal.NullDecimal]
	InStock  Opt[bool]
}

type (
	SetState       struct{ Patch StatePatch }
	UpdateUser     struct{ Patch UserPatch }
	ClearUser      struct{}
	SetCart        struct{ Cart []entity.CartLine }
	AddToCart      struct {
		ProductID string
		Quantity  int
	}
	RemoveFromCart struct{ ProductID string }
	UpdateCartItem struct {
		ProductID string
		Patch     entity.CartLinePatch
	}
	ClearCart   struct{}
	SetProducts struct{ Products []entity.Product }
	SetFilters  struct{ Patch FiltersPatch }
	// SetLoading combina las banderas con las existentes.
	SetLoading struct{ Loading map[string]bool }
	SetError   struct{ Error ErrorInfo }
	ClearError struct{}
	ResetState struct{}
	// Undo acción sintética con la que se notifica un undo; el reducer la ignora.
	Undo struct{}
)

func (SetState) Type() ActionType       { return TypeSetState }
func (UpdateUser) Type() ActionType     { return TypeUpdateUser }
func (ClearUser) Type() ActionType      { return TypeClearUser }
func (SetCart) Type() ActionType        { return TypeSetCart }
func (AddToCart) Type() ActionType      { return TypeAddToCart }
func (RemoveFromCart) Type() ActionType { return TypeRemoveFromCart }
func (UpdateCartItem) Type() ActionType { return TypeUpdateCartItem }
func (ClearCart) Type() ActionType      { return TypeClearCart }
func (SetProducts) Type() ActionType    { return TypeSetProducts }
func (SetFilters) Type() ActionType     { return TypeSetFilters }
func (SetLoading) Type() ActionType     { return TypeSetLoading }
func (SetError) Type() ActionType       { return TypeSetError }
func (ClearError) Type() ActionType     { return TypeClearError }
func (ResetState) Type() ActionType     { return TypeResetState }
func (Undo) Type() ActionType           { return TypeUndo }

func (SetState) action()       {}
func (UpdateUser) action()     {}
func (ClearUser) action()      {}
func (SetCart) action()        {}
func (AddToCart) action()      {}
func (RemoveFromCart) action() {}
func (UpdateCartItem) action() {}
func (ClearCart) action()      {}
func (SetProducts) action()    {}
func (SetFilters) action()     {}
func (SetLoading) action()     {}
func (SetError) action()       {}
func (ClearError) action()     {}
func (ResetState) action()     {}
func (Undo) action()           {}
