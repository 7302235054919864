package validation

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
	"github.com/PyKydo/LevelUpGamer/pkg/run"
)

// DefaultEmailDomains dominios de correo permitidos por defecto.
var DefaultEmailDomains = []string{"@duoc.cl", "@profesor.duoc.cl", "@gmail.com"}

const (
	DefaultPasswordMin = 4
	DefaultPasswordMax = 10
	DefaultMinAge      = 18
)

// Validator ejecuta reglas sobre valores de formulario. Es inmutable y seguro
// para uso concurrente.
type Validator struct {
	domains     []string
	passwordMin int
	passwordMax int
	now         func() time.Time
}

// Option configura el Validator.
type Option func(*Validator)

func WithEmailDomains(domains []string) Option {
	return func(v *Validator) {
		if len(domains) > 0 {
			v.domains = domains
		}
	}
}

func WithPasswordBounds(lo, hi int) Option {
	return func(v *Validator) { v.passwordMin, v.passwordMax = lo, hi }
}

// WithClock fija el reloj usado por la regla age.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New crea un Validator con los valores por defecto de la tienda.
func New(opts ...Option) *Validator {
	v := &Validator{
		domains:     DefaultEmailDomains,
		passwordMin: DefaultPasswordMin,
		passwordMax: DefaultPasswordMax,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// EmailDomains dominios permitidos configurados.
func (v *Validator) EmailDomains() []string { return v.domains }

// FieldResult resultado de validar un campo.
type FieldResult struct {
	Field  string
	Errors []string
}

func (r FieldResult) Valid() bool { return len(r.Errors) == 0 }

// Validate ejecuta las reglas en orden y acumula los mensajes de las que fallan.
func (v *Validator) Validate(field, value string, rules []Rule) FieldResult {
	res := FieldResult{Field: field}
	for _, rule := range rules {
		if !v.check(rule, value) {
			res.Errors = append(res.Errors, rule.Message)
		}
	}
	return res
}

// Result resultado de validar un formulario completo.
type Result struct {
	fields map[string][]string
}

// Valid indica si ningún campo tuvo errores.
func (r Result) Valid() bool {
	for _, errs := range r.fields {
		if len(errs) > 0 {
			return false
		}
	}
	return true
}

// FieldErrors mensajes de un campo (vacío si es válido o no fue validado).
func (r Result) FieldErrors(field string) []string { return r.fields[field] }

// Errors sólo los campos con errores.
func (r Result) Errors() map[string][]string {
	out := make(map[string][]string)
	for k, errs := range r.fields {
		if len(errs) > 0 {
			out[k] = errs
		}
	}
	return out
}

// Err nil si es válido; si no, un *domain.ValidationError.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return domain.NewValidationError(r.Errors())
}

// ValidateForm valida cada campo nombrado en set. Los campos del formulario
// que no aparecen en set se ignoran; los ausentes se validan como "".
func (v *Validator) ValidateForm(data FormData, set RuleSet) Result {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	res := Result{fields: make(map[string][]string, len(set))}
	for _, name := range names {
		fr := v.Validate(name, data[name], set[name])
		res.fields[name] = fr.Errors
	}
	return res
}

func (v *Validator) check(rule Rule, value string) bool {
	switch rule.Kind {
	case KindRequired:
		return strings.TrimSpace(value) != ""
	case KindEmail:
		return helpers.IsValidEmail(value)
	case KindEmailDomain:
		domains := rule.domains
		if len(domains) == 0 {
			domains = v.domains
		}
		return helpers.HasEmailDomain(value, domains)
	case KindRun:
		return run.IsValid(value)
	case KindPassword:
		lo, hi := rule.min, rule.max
		if lo == 0 {
			lo = v.passwordMin
		}
		if hi == 0 {
			hi = v.passwordMax
		}
		n := utf8.RuneCountInString(value)
		return n >= lo && n <= hi
	case KindMinLength:
		return utf8.RuneCountInString(value) >= rule.n
	case KindMaxLength:
		return utf8.RuneCountInString(value) <= rule.n
	case KindMin:
		f, ok := parseFloatPrefix(value)
		return ok && f >= rule.f
	case KindMax:
		f, ok := parseFloatPrefix(value)
		return ok && f <= rule.f
	case KindPattern:
		return rule.re != nil && rule.re.MatchString(value)
	case KindAge:
		birth, err := helpers.ParseBirthDate(value)
		if err != nil {
			return false
		}
		minAge := rule.n
		if minAge == 0 {
			minAge = DefaultMinAge
		}
		return helpers.IsAdult(birth, v.now(), minAge)
	case KindNumber:
		if _, ok := parseFloatPrefix(value); !ok {
			return false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
	case KindInteger:
		f, ok := parseFloatPrefix(value)
		return ok && !math.IsInf(f, 0) && f == math.Trunc(f)
	default:
		return false
	}
}

var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseFloatPrefix interpreta el prefijo numérico más largo del valor, como
// parseFloat: "12abc" -> 12, "abc" -> no numérico.
func parseFloatPrefix(s string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if m == "" {
		return 0, false
	}
	if strings.HasSuffix(m, "Infinity") {
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// overflow: ParseFloat devuelve ±Inf junto al error
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}
