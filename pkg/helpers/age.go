package helpers

import (
	"fmt"
	"strings"
	"time"
)

// BirthDateLayout formato esperado para fechas de nacimiento.
const BirthDateLayout = "2006-01-02"

// ParseBirthDate interpreta una fecha "AAAA-MM-DD" (también acepta RFC 3339).
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(BirthDateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha de nacimiento inválida %q", s)
	}
	return t, nil
}

// CalculateAge años cumplidos a la fecha now: diferencia de años, menos uno si
// aún no llega el mes/día de cumpleaños.
func CalculateAge(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// IsAdult indica si la persona tiene al menos minAge años a la fecha now.
func IsAdult(birth, now time.Time, minAge int) bool {
	return CalculateAge(birth, now) >= minAge
}
