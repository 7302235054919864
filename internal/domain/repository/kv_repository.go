package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

// Claves del almacenamiento local.
const (
	KeyCart          = "levelup_cart"
	KeyUser          = "levelup_user"
	KeyErrorLogs     = "levelup_error_logs"
	KeyLogs          = "levelup_logs"
	KeyStoreState    = "levelup_store_state"
	KeyProducts      = "levelup_products"
	KeyUsers         = "levelup_users"
	KeyAdminProducts = "levelup_admin_products"
	KeyAdminUsers    = "levelup_admin_users"
	KeyOrders        = "levelup_orders"
	KeyMessages      = "levelup_messages"
	KeyRegistered    = "levelup_registered_users"
)

// KVRepository define el puerto de persistencia clave-valor (equivalente a
// localStorage). Get devuelve ok=false si la clave no existe.
type KVRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON lee y decodifica la clave en dst. Devuelve false si no existe.
func LoadJSON(ctx context.Context, kv KVRepository, key string, dst any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("kv %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON codifica value y lo guarda bajo key.
func SaveJSON(ctx context.Context, kv KVRepository, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}

// SalesRecorder registro opcional de ventas con montos exactos (driver postgres).
type SalesRecorder interface {
	RecordSale(ctx context.Context, order entity.Order) error
}
