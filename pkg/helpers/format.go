// Package helpers agrupa utilidades sin estado usadas por toda la tienda:
// formato de precios y fechas (es-CL), validaciones de correo, edad,
// debounce/throttle y generación de identificadores.
package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatPrice formatea un monto en pesos chilenos: sin decimales y con punto
// como separador de miles. Ej: 1234567 -> "$1.234.567", -1500 -> "-$1.500".
func FormatPrice(amount decimal.Decimal) string {
	s := amount.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if s == "0" {
		sign = ""
	}
	return sign + "$" + FormatThousands(s)
}

// FormatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" -> "25.000", "1000000" -> "1.000.000"
func FormatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// FormatDate devuelve la fecha en formato largo: "15 de octubre de 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
