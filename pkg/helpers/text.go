package helpers

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Fold normaliza texto para búsquedas: minúsculas con reglas del español.
func Fold(s string) string {
	return cases.Lower(language.Spanish).String(s)
}

// ContainsFold indica si haystack contiene needle sin distinguir mayúsculas.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// SortSpanish ordena en sitio usando la colación del español
// ("Ñuble" va después de "Nuble" y antes de "O").
func SortSpanish(values []string) {
	c := collate.New(language.Spanish)
	sort.SliceStable(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
}
