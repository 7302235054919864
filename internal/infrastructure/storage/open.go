package storage

import (
	"context"
	"fmt"

	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/postgres"
	"github.com/PyKydo/LevelUpGamer/pkg/config"
)

// Store KVRepository con recursos que liberar.
type Store interface {
	repository.KVRepository
	Close() error
}

// Open construye el almacenamiento según STORAGE_DRIVER.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite, "":
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.DriverRedis:
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case config.DriverPostgres:
		return postgres.NewKVRepository(ctx, cfg.Postgres, cfg.PostgresTable)
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Driver)
	}
}
