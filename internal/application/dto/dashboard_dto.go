package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/admin/dashboard.
type DashboardDTO struct {
	// Productos
	TotalProducts  int             `json:"totalProducts"`
	ActiveProducts int             `json:"activeProducts"`
	LowStock       int             `json:"lowStock"`   // stock <= crítico
	OutOfStock     int             `json:"outOfStock"` // stock == 0
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	ByCategory     map[string]int  `json:"byCategory"`

	// Usuarios
	TotalUsers int            `json:"totalUsers"`
	ByRole     map[string]int `json:"byRole"`

	// Ventas simuladas
	Orders     int             `json:"orders"`
	SalesTotal decimal.Decimal `json:"salesTotal"`

	LowStockItems []LowStockItemDTO `json:"lowStockItems"`
}

// LowStockItemDTO producto bajo el umbral crítico.
type LowStockItemDTO struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Stock         int    `json:"stock"`
	CriticalStock int    `json:"criticalStock"`
}
