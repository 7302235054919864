package helpers

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail comprueba la forma local@dominio.tld (sin gramática RFC completa).
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// HasEmailDomain indica si el correo termina en alguno de los dominios
// permitidos. La comparación distingue mayúsculas.
func HasEmailDomain(email string, domains []string) bool {
	for _, d := range domains {
		if strings.HasSuffix(email, d) {
			return true
		}
	}
	return false
}
