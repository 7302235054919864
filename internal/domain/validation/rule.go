// Package validation motor de validación por reglas declarativas para
// formularios (usuario, autenticación, contacto, producto, carrito).
package validation

import "regexp"

// Kind tipo de regla. El conjunto es cerrado: una regla con Kind fuera de
// este conjunto (por ejemplo el valor cero) siempre falla.
type Kind int

const (
	kindInvalid Kind = iota
	KindRequired
	KindEmail
	KindEmailDomain
	KindRun
	KindPassword
	KindMinLength
	KindMaxLength
	KindMin
	KindMax
	KindPattern
	KindAge
	KindNumber
	KindInteger
)

var kindNames = map[Kind]string{
	KindRequired:    "required",
	KindEmail:       "email",
	KindEmailDomain: "emailDomain",
	KindRun:         "run",
	KindPassword:    "password",
	KindMinLength:   "minLength",
	KindMaxLength:   "maxLength",
	KindMin:         "min",
	KindMax:         "max",
	KindPattern:     "pattern",
	KindAge:         "age",
	KindNumber:      "number",
	KindInteger:     "integer",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Rule regla con su mensaje de error y sus parámetros propios.
// Se construye sólo con los constructores de este paquete.
type Rule struct {
	Kind    Kind
	Message string

	n       int     // minLength, maxLength, age
	min     int     // password
	max     int     // password
	f       float64 // min, max
	domains []string
	re      *regexp.Regexp
}

func Required(msg string) Rule { return Rule{Kind: KindRequired, Message: msg} }
func Email(msg string) Rule    { return Rule{Kind: KindEmail, Message: msg} }
func Run(msg string) Rule      { return Rule{Kind: KindRun, Message: msg} }
func Number(msg string) Rule   { return Rule{Kind: KindNumber, Message: msg} }
func Integer(msg string) Rule  { return Rule{Kind: KindInteger, Message: msg} }

// EmailDomain sin dominios usa la lista permitida del Validator.
func EmailDomain(msg string, domains ...string) Rule {
	return Rule{Kind: KindEmailDomain, Message: msg, domains: domains}
}

// Password largo en [min,max]; 0 usa los límites del Validator.
func Password(msg string, lo, hi int) Rule {
	return Rule{Kind: KindPassword, Message: msg, min: lo, max: hi}
}

func MinLength(msg string, n int) Rule { return Rule{Kind: KindMinLength, Message: msg, n: n} }
func MaxLength(msg string, n int) Rule { return Rule{Kind: KindMaxLength, Message: msg, n: n} }
func Min(msg string, v float64) Rule   { return Rule{Kind: KindMin, Message: msg, f: v} }
func Max(msg string, v float64) Rule   { return Rule{Kind: KindMax, Message: msg, f: v} }

// Pattern el valor debe coincidir con re.
func Pattern(msg string, re *regexp.Regexp) Rule {
	return Rule{Kind: KindPattern, Message: msg, re: re}
}

// Age edad mínima en años a partir de una fecha AAAA-MM-DD.
func Age(msg string, minAge int) Rule { return Rule{Kind: KindAge, Message: msg, n: minAge} }

// RuleSet reglas por nombre de campo.
type RuleSet map[string][]Rule

// FormData valores del formulario por nombre de campo.
type FormData map[string]string

// Merge devuelve un RuleSet con las reglas de ambos; en claves repetidas
// las de other se agregan al final.
func (rs RuleSet) Merge(other RuleSet) RuleSet {
	out := make(RuleSet, len(rs)+len(other))
	for k, v := range rs {
		out[k] = append([]Rule(nil), v...)
	}
	for k, v := range other {
		out[k] = append(out[k], v...)
	}
	return out
}
