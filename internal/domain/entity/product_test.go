package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

func TestProduct_JSONCompatibleConDatosEstaticos(t *testing.T) {
	var p entity.Product
	require.NoError(t, json.Unmarshal([]byte(`{"code":"JM001","name":"Catan","price":29990,"stock":3}`), &p))
	assert.True(t, p.IsActive, "isActive ausente equivale a true")
	assert.True(t, decimal.NewFromInt(29990).Equal(p.Price))

	require.NoError(t, json.Unmarshal([]byte(`{"code":"X","price":"1000","isActive":false}`), &p))
	assert.False(t, p.IsActive)

	raw, err := json.Marshal(entity.Product{Code: "A", Name: "a", Price: decimal.NewFromInt(1000), IsActive: true})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, float64(1000), m["price"], "price se serializa como número")
	assert.Equal(t, true, m["isActive"])
}

func TestProduct_StockStatus(t *testing.T) {
	p := entity.Product{Stock: 0}
	assert.Equal(t, "Sin Stock", p.StockStatusText())

	p.Stock = 5
	assert.Equal(t, entity.StockLow, p.StockStatus(), "criticalStock 0 usa el umbral por defecto")

	p.CriticalStock = 2
	assert.Equal(t, "En Stock", p.StockStatusText())
	p.Stock = 2
	assert.True(t, p.IsLowStock())
}

func TestProduct_IsAvailableYClamps(t *testing.T) {
	p := entity.Product{Stock: 3, IsActive: true}
	assert.True(t, p.IsAvailable(3))
	assert.False(t, p.IsAvailable(4))
	assert.False(t, p.IsAvailable(0))
	assert.False(t, entity.Product{Stock: 3}.IsAvailable(1), "inactivo")

	assert.Equal(t, 0, p.WithStock(-4).Stock)
	assert.True(t, p.WithPrice(decimal.NewFromInt(-1)).Price.IsZero())
	assert.Equal(t, 3, p.Stock, "los With* no mutan el original")
}

func TestUser_Public(t *testing.T) {
	u := entity.User{Name: "Ana", LastName: "Pérez", Password: "1234", Role: entity.RoleAdministrador}
	assert.Equal(t, "Ana Pérez", u.FullName())
	assert.True(t, u.IsAdmin())
	assert.Empty(t, u.Public().Password)
	assert.Equal(t, "1234", u.Password)
	assert.True(t, entity.ValidRole("Vendedor"))
	assert.False(t, entity.ValidRole("admin"))
}
