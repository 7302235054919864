// Package run valida y formatea el RUN chileno (Rol Único Nacional).
//
// El dígito verificador se calcula con el algoritmo módulo 11: los dígitos del
// cuerpo se recorren de derecha a izquierda multiplicándolos por los pesos
// 2, 3, 4, 5, 6, 7 (cíclicos); el dígito es 11 - (suma % 11), donde 11 se
// representa como '0' y 10 como 'K'.
package run

import (
	"fmt"
	"strings"
)

const (
	minBodyLen = 7
	maxBodyLen = 8
)

// Clean elimina puntos, guiones y espacios y pasa a mayúsculas.
// "12.345.678-k" -> "12345678K".
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '.', '-', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// CheckDigit calcula el dígito verificador para el cuerpo del RUN (solo dígitos).
func CheckDigit(body string) (byte, error) {
	if len(body) < minBodyLen || len(body) > maxBodyLen {
		return 0, fmt.Errorf("run: el cuerpo debe tener entre %d y %d dígitos, se recibieron %d", minBodyLen, maxBodyLen, len(body))
	}
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("run: carácter no numérico %q en el cuerpo", c)
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + r), nil
	}
}

// Validate verifica formato (7-8 dígitos + dígito verificador numérico o K) y
// el dígito verificador. Acepta "12345678-5", "12.345.678-5" o "123456785".
func Validate(s string) error {
	clean := Clean(s)
	if len(clean) < minBodyLen+1 || len(clean) > maxBodyLen+1 {
		return fmt.Errorf("run: largo inválido (%d caracteres)", len(clean))
	}
	body, dv := clean[:len(clean)-1], clean[len(clean)-1]
	if dv != 'K' && (dv < '0' || dv > '9') {
		return fmt.Errorf("run: dígito verificador inválido %q", dv)
	}
	expected, err := CheckDigit(body)
	if err != nil {
		return err
	}
	if dv != expected {
		return fmt.Errorf("run: dígito verificador incorrecto: esperado %c, recibido %c", expected, dv)
	}
	return nil
}

// IsValid es la versión booleana de Validate.
func IsValid(s string) bool {
	return Validate(s) == nil
}

// Format devuelve el RUN como "cuerpo-dv". Entradas de 7 caracteres o menos se
// devuelven limpias, sin guion.
func Format(s string) string {
	clean := Clean(s)
	if len(clean) <= minBodyLen {
		return clean
	}
	return clean[:len(clean)-1] + "-" + clean[len(clean)-1:]
}
