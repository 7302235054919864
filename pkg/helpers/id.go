package helpers

import (
	"strings"

	"github.com/google/uuid"
)

// NewID genera un identificador único (UUID v4).
func NewID() string {
	return uuid.NewString()
}

// NewProductCode genera un código de producto "PRD" + 10 caracteres en mayúscula.
func NewProductCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PRD" + strings.ToUpper(raw[:10])
}
