package admin

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
)

// Product producto de la copia de trabajo.
func (uc *AdminUseCase) Product(ctx context.Context, code string) (entity.Product, error) {
	products, err := uc.Products(ctx)
	if err != nil {
		return entity.Product{}, err
	}
	p, ok := entity.FindProduct(products, code)
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, code)
	}
	return p, nil
}

// CreateProduct valida y agrega un producto. Sin código se genera uno; sin
// imagen ni stock crítico se usan los valores por defecto.
func (uc *AdminUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (entity.Product, error) {
	if err := uc.cfg.Validator.ValidateForm(in.Form(), uc.cfg.Limits.ProductRules()).Err(); err != nil {
		return entity.Product{}, err
	}
	p := entity.Product{
		Code:          strings.TrimSpace(in.Code),
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		Stock:         in.Stock,
		CriticalStock: entity.DefaultCriticalStock,
		Image:         strings.TrimSpace(in.Image),
		IsActive:      true,
	}
	if in.CriticalStock != nil {
		p.CriticalStock = *in.CriticalStock
	}
	if p.Code == "" {
		p.Code = helpers.NewProductCode()
	}
	if p.Image == "" {
		p.Image = entity.DefaultProductImage
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	products, err := uc.Products(ctx)
	if err != nil {
		return entity.Product{}, err
	}
	if _, dup := entity.FindProduct(products, p.Code); dup {
		return entity.Product{}, domain.NewValidationError(map[string][]string{
			"code": {"Ya existe un producto con ese código"},
		})
	}
	if err := uc.saveProducts(ctx, append(products, p)); err != nil {
		return entity.Product{}, err
	}
	uc.cfg.Logger.Info().Str("code", p.Code).Msg("producto creado")
	uc.notifier.Notify(fmt.Sprintf("Producto %s creado", p.Name), ports.LevelSuccess)
	return p, nil
}

// UpdateProduct aplica cambios parciales y valida el resultado.
func (uc *AdminUseCase) UpdateProduct(ctx context.Context, code string, in dto.UpdateProductRequest) (entity.Product, error) {
	return uc.mutateProduct(ctx, code, func(p entity.Product) (entity.Product, error) {
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.Category != nil {
			p.Category = strings.TrimSpace(*in.Category)
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Stock != nil {
			p.Stock = *in.Stock
		}
		if in.CriticalStock != nil {
			p.CriticalStock = *in.CriticalStock
		}
		if in.Image != nil {
			p.Image = strings.TrimSpace(*in.Image)
			if p.Image == "" {
				p.Image = entity.DefaultProductImage
			}
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		if err := uc.cfg.Validator.ValidateForm(productForm(p), uc.cfg.Limits.ProductRules()).Err(); err != nil {
			return p, err
		}
		return p, nil
	})
}

// UpdateStock fija el stock; los negativos quedan en 0.
func (uc *AdminUseCase) UpdateStock(ctx context.Context, code string, stock int) (entity.Product, error) {
	return uc.mutateProduct(ctx, code, func(p entity.Product) (entity.Product, error) {
		return p.WithStock(stock), nil
	})
}

// UpdatePrice fija el precio; los negativos quedan en 0.
func (uc *AdminUseCase) UpdatePrice(ctx context.Context, code string, price decimal.Decimal) (entity.Product, error) {
	return uc.mutateProduct(ctx, code, func(p entity.Product) (entity.Product, error) {
		return p.WithPrice(price), nil
	})
}

// DeleteProduct quita el producto de la copia de trabajo.
func (uc *AdminUseCase) DeleteProduct(ctx context.Context, code string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	products, err := uc.Products(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(products, func(p entity.Product) bool { return p.Code == code })
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, code)
	}
	name := products[i].Name
	if err := uc.saveProducts(ctx, slices.Delete(products, i, i+1)); err != nil {
		return err
	}
	uc.cfg.Logger.Info().Str("code", code).Msg("producto eliminado")
	uc.notifier.Notify(fmt.Sprintf("Producto %s eliminado", name), ports.LevelSuccess)
	return nil
}

func (uc *AdminUseCase) mutateProduct(ctx context.Context, code string, fn func(entity.Product) (entity.Product, error)) (entity.Product, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	products, err := uc.Products(ctx)
	if err != nil {
		return entity.Product{}, err
	}
	i := slices.IndexFunc(products, func(p entity.Product) bool { return p.Code == code })
	if i < 0 {
		return entity.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, code)
	}
	updated, err := fn(products[i])
	if err != nil {
		return entity.Product{}, err
	}
	products[i] = updated
	if err := uc.saveProducts(ctx, products); err != nil {
		return entity.Product{}, err
	}
	return updated, nil
}

func productForm(p entity.Product) validation.FormData {
	return validation.FormData{
		"name":          p.Name,
		"description":   p.Description,
		"category":      p.Category,
		"price":         p.Price.String(),
		"stock":         strconv.Itoa(p.Stock),
		"criticalStock": strconv.Itoa(p.CriticalStock),
	}
}
