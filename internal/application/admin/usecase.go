// Package admin casos de uso del back-office: copias de trabajo de productos
// y usuarios, panel de control y exportación/importación.
package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
)

// SalesTotaler suma de ventas registradas (registro postgres).
type SalesTotaler interface {
	SalesTotal(ctx context.Context) (decimal.Decimal, error)
}

// Config dependencias opcionales.
type Config struct {
	Validator *validation.Validator
	Limits    validation.Limits
	Sales     SalesTotaler
	Logger    zerolog.Logger
}

// AdminUseCase opera sobre las copias locales; nunca escribe en las fuentes.
type AdminUseCase struct {
	source   ports.DataSource
	kv       repository.KVRepository
	notifier ports.Notifier
	cfg      Config
	now      func() time.Time

	// serializa leer-modificar-escribir sobre las copias
	mu sync.Mutex
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(source ports.DataSource, kv repository.KVRepository, notifier ports.Notifier, cfg Config) *AdminUseCase {
	if cfg.Validator == nil {
		cfg.Validator = validation.New()
	}
	if cfg.Limits.PasswordMax == 0 {
		cfg.Limits = validation.DefaultLimits()
	}
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &AdminUseCase{source: source, kv: kv, notifier: notifier, cfg: cfg, now: time.Now}
}

// Seed crea en paralelo las copias de trabajo que aún no existan.
func (uc *AdminUseCase) Seed(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := uc.Products(gctx)
		return err
	})
	g.Go(func() error {
		_, err := uc.Users(gctx)
		return err
	})
	return g.Wait()
}

// Products copia de trabajo de productos; la primera lectura la siembra
// desde la fuente.
func (uc *AdminUseCase) Products(ctx context.Context) ([]entity.Product, error) {
	return loadCopy(ctx, uc.kv, repository.KeyAdminProducts, uc.source.Products)
}

// Users copia de trabajo de usuarios.
func (uc *AdminUseCase) Users(ctx context.Context) ([]entity.User, error) {
	return loadCopy(ctx, uc.kv, repository.KeyAdminUsers, uc.source.Users)
}

func loadCopy[T any](ctx context.Context, kv repository.KVRepository, key string, seed func(context.Context) ([]T, error)) ([]T, error) {
	var items []T
	ok, err := repository.LoadJSON(ctx, kv, key, &items)
	if err != nil {
		return nil, err
	}
	if ok {
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
	items, err = seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("sembrar %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	if err := repository.SaveJSON(ctx, kv, key, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (uc *AdminUseCase) saveProducts(ctx context.Context, products []entity.Product) error {
	return repository.SaveJSON(ctx, uc.kv, repository.KeyAdminProducts, products)
}

func (uc *AdminUseCase) saveUsers(ctx context.Context, users []entity.User) error {
	return repository.SaveJSON(ctx, uc.kv, repository.KeyAdminUsers, users)
}
