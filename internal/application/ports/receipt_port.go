package ports

import (
	"context"

	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
)

// ReceiptGenerator genera la boleta de una orden (PDF).
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order entity.Order) ([]byte, error)
}
