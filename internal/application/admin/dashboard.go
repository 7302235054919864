package admin

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
)

// Dashboard resumen de inventario, usuarios y ventas simuladas.
func (uc *AdminUseCase) Dashboard(ctx context.Context) (dto.DashboardDTO, error) {
	products, err := uc.Products(ctx)
	if err != nil {
		return dto.DashboardDTO{}, err
	}
	users, err := uc.Users(ctx)
	if err != nil {
		return dto.DashboardDTO{}, err
	}
	var orders []entity.Order
	if _, err := repository.LoadJSON(ctx, uc.kv, repository.KeyOrders, &orders); err != nil {
		return dto.DashboardDTO{}, err
	}

	d := dto.DashboardDTO{
		TotalProducts:  len(products),
		InventoryValue: decimal.Zero,
		ByCategory:     make(map[string]int),
		TotalUsers:     len(users),
		ByRole:         make(map[string]int),
		Orders:         len(orders),
		SalesTotal:     decimal.Zero,
		LowStockItems:  []dto.LowStockItemDTO{},
	}
	for _, p := range products {
		if p.IsActive {
			d.ActiveProducts++
		}
		if p.IsOutOfStock() {
			d.OutOfStock++
		}
		if p.IsLowStock() {
			d.LowStock++
			d.LowStockItems = append(d.LowStockItems, dto.LowStockItemDTO{
				Code:          p.Code,
				Name:          p.Name,
				Stock:         p.Stock,
				CriticalStock: p.LowStockThreshold(),
			})
		}
		d.ByCategory[p.Category]++
		d.InventoryValue = d.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	sort.SliceStable(d.LowStockItems, func(i, j int) bool {
		return d.LowStockItems[i].Stock < d.LowStockItems[j].Stock
	})
	for _, u := range users {
		d.ByRole[u.Role]++
	}

	for _, o := range orders {
		d.SalesTotal = d.SalesTotal.Add(o.Total)
	}
	if uc.cfg.Sales != nil {
		total, err := uc.cfg.Sales.SalesTotal(ctx)
		if err != nil {
			uc.cfg.Logger.Warn().Err(err).Msg("total de ventas no disponible, se usa el de las órdenes locales")
		} else {
			d.SalesTotal = total
		}
	}
	return d, nil
}
