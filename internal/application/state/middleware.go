package state

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

// LoggingMiddleware registra cada acción en debug.
func LoggingMiddleware(log zerolog.Logger) Middleware {
	return func(a Action, _ *Store) (Action, error) {
		log.Debug().Str("action", string(a.Type())).Msg("dispatch")
		return a, nil
	}
}

// CartQuantityGuard rechaza ADD_TO_CART sin producto o con cantidad < 1.
func CartQuantityGuard() Middleware {
	return func(a Action, _ *Store) (Action, error) {
		add, ok := a.(AddToCart)
		if !ok {
			return a, nil
		}
		if add.ProductID == "" {
			return nil, fmt.Errorf("%w: productId requerido", domain.ErrInvalidInput)
		}
		if add.Quantity < 1 {
			return nil, fmt.Errorf("%w: cantidad debe ser mayor a 0", domain.ErrInvalidInput)
		}
		return a, nil
	}
}
