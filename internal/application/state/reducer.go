package state

import (
	"fmt"
	"maps"
	"slices"

	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

// Reduce transición pura: nunca modifica s ni los valores que referencia.
// initial es el estado al que vuelve RESET_STATE.
func Reduce(s AppState, a Action, initial AppState) (AppState, error) {
	switch act := a.(type) {
	case SetState:
		next := s
		act.Patch.User.apply(&next.User)
		act.Patch.Cart.apply(&next.Cart)
		act.Patch.Products.apply(&next.Products)
		act.Patch.Filters.apply(&next.Filters)
		act.Patch.Loading.apply(&next.Loading)
		act.Patch.Error.apply(&next.Error)
		act.Patch.UI.apply(&next.UI)
		return next.Clone(), nil

	case UpdateUser:
		var u entity.User
		if s.User != nil {
			u = *s.User
		}
		p := act.Patch
		p.ID.apply(&u.ID)
		p.Run.apply(&u.Run)
		p.Name.apply(&u.Name)
		p.LastName.apply(&u.LastName)
		p.Email.apply(&u.Email)
		p.BirthDate.apply(&u.BirthDate)
		p.Role.apply(&u.Role)
		p.Address.apply(&u.Address)
		p.Region.apply(&u.Region)
		p.Commune.apply(&u.Commune)
		next := s
		next.User = &u
		return next, nil

	case ClearUser:
		next := s
		next.User = nil
		return next, nil

	case SetCart:
		next := s
		next.Cart = normalizeCart(act.Cart)
		return next, nil

	case AddToCart:
		if act.ProductID == "" {
			return s, fmt.Errorf("%w: productId vacío", domain.ErrInvalidInput)
		}
		next := s
		i := slices.IndexFunc(s.Cart, func(l entity.CartLine) bool { return l.ProductID == act.ProductID })
		switch {
		case i >= 0:
			next.Cart = setQuantity(s.Cart, i, s.Cart[i].Quantity+act.Quantity)
		case act.Quantity >= 1:
			next.Cart = append(slices.Clone(s.Cart), entity.CartLine{ProductID: act.ProductID, Quantity: act.Quantity})
		}
		return next, nil

	case RemoveFromCart:
		next := s
		next.Cart = slices.DeleteFunc(slices.Clone(s.Cart), func(l entity.CartLine) bool { return l.ProductID == act.ProductID })
		return next, nil

	case UpdateCartItem:
		i := slices.IndexFunc(s.Cart, func(l entity.CartLine) bool { return l.ProductID == act.ProductID })
		if i < 0 || act.Patch.Quantity == nil {
			return s, nil
		}
		next := s
		next.Cart = setQuantity(s.Cart, i, *act.Patch.Quantity)
		return next, nil

	case ClearCart:
		next := s
		next.Cart = []entity.CartLine{}
		return next, nil

	case SetProducts:
		next := s
		next.Products = slices.Clone(act.Products)
		return next, nil

	case SetFilters:
		next := s
		p := act.Patch
		p.Category.apply(&next.Filters.Category)
		p.Search.apply(&next.Filters.Search)
		p.MinPrice.apply(&next.Filters.MinPrice)
		p.MaxPrice.apply(&next.Filters.MaxPrice)
		p.InStock.apply(&next.Filters.InStock)
		return next, nil

	case SetLoading:
		next := s
		next.Loading = maps.Clone(s.Loading)
		if next.Loading == nil {
			next.Loading = map[string]bool{}
		}
		maps.Copy(next.Loading, act.Loading)
		return next, nil

	case SetError:
		next := s
		e := act.Error
		next.Error = &e
		return next, nil

	case ClearError:
		next := s
		next.Error = nil
		return next, nil

	case ResetState:
		return initial.Clone(), nil

	case Undo:
		return s, nil

	default:
		return s, fmt.Errorf("%w: acción desconocida %T", domain.ErrInvalidInput, a)
	}
}

// setQuantity copia el carrito con la cantidad de la línea i; < 1 elimina la línea.
func setQuantity(cart []entity.CartLine, i, qty int) []entity.CartLine {
	out := slices.Clone(cart)
	if qty < 1 {
		return slices.Delete(out, i, i+1)
	}
	out[i].Quantity = qty
	return out
}

// normalizeCart fusiona líneas repetidas y descarta cantidades < 1,
// manteniendo el orden de inserción.
func normalizeCart(cart []entity.CartLine) []entity.CartLine {
	out := make([]entity.CartLine, 0, len(cart))
	for _, l := range cart {
		if i := slices.IndexFunc(out, func(o entity.CartLine) bool { return o.ProductID == l.ProductID }); i >= 0 {
			out[i].Quantity += l.Quantity
			continue
		}
		out = append(out, l)
	}
	return slices.DeleteFunc(out, func(l entity.CartLine) bool { return l.Quantity < 1 })
}
