package ports

import (
	"context"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

// ProductSource catálogo publicado (fuente de datos estática con caché).
type ProductSource interface {
	Products(ctx context.Context) ([]entity.Product, error)
}

// UserSource usuarios publicados por la fuente de datos.
type UserSource interface {
	Users(ctx context.Context) ([]entity.User, error)
}

// DataSource ambas fuentes; api.Service la implementa.
type DataSource interface {
	ProductSource
	UserSource
}
