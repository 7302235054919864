package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/pkg/config"
)

// KVRepository implementa repository.KVRepository sobre una tabla
// (key TEXT, value BYTEA) y lleva además un registro de ventas con montos NUMERIC.
type KVRepository struct {
	pool  *pgxpool.Pool
	table string
}

var _ repository.KVRepository = (*KVRepository)(nil)

// NewKVRepository abre el pool y crea las tablas si no existen.
func NewKVRepository(ctx context.Context, cfg config.DBConfig, table string) (*KVRepository, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres %s: %w", redactDSN(cfg.ConnectionString()), err)
	}
	r := &KVRepository{pool: pool, table: pgx.Identifier{table}.Sanitize()}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *KVRepository) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, r.table),
		`CREATE TABLE IF NOT EXISTS levelup_sales (
			order_id   TEXT PRIMARY KEY,
			user_email TEXT NOT NULL,
			subtotal   NUMERIC(14,2) NOT NULL,
			discount   NUMERIC(14,2) NOT NULL,
			total      NUMERIC(14,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := r.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("migrar: %w", err)
		}
	}
	return nil
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, r.table), key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, r.table),
		key, value)
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, r.table), key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

// RecordSale registra los montos de una orden (idempotente por order_id).
func (r *KVRepository) RecordSale(ctx context.Context, o entity.Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO levelup_sales (order_id, user_email, subtotal, discount, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO NOTHING`,
		o.ID, o.UserEmail, o.Subtotal, o.Discount, o.Total, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("registrar venta %s: %w", o.ID, err)
	}
	return nil
}

// SalesTotal suma de los totales registrados.
func (r *KVRepository) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM levelup_sales`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total ventas: %w", err)
	}
	return total, nil
}

func (r *KVRepository) Close() error {
	r.pool.Close()
	return nil
}
