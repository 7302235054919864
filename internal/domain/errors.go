package domain

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrProductUnavailable = errors.New("producto no disponible")
	ErrLoginRequired      = errors.New("debes iniciar sesión")
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrEmptyCart          = errors.New("el carrito está vacío")
)

// ErrorKind clasificación de un error para logging y mensajes al usuario.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNetwork    ErrorKind = "network"
	KindAuth       ErrorKind = "auth"
	KindPermission ErrorKind = "permission"
	KindNotFound   ErrorKind = "not_found"
	KindServer     ErrorKind = "server"
	KindUnknown    ErrorKind = "unknown"
)

// ValidationError errores de validación por campo.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError construye el error a partir de los mensajes por campo.
func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return "validación fallida: " + strings.Join(parts, ", ")
}

// Messages lista plana de mensajes, ordenada por campo.
func (e *ValidationError) Messages() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []string
	for _, name := range names {
		out = append(out, e.Fields[name]...)
	}
	return out
}

// HTTPError fallo de una petición a una fuente de datos. Status 0 indica que
// no hubo respuesta (error de red).
type HTTPError struct {
	Status     int
	StatusText string
	Endpoint   string
	Method     string
	RequestID  uint64
	Attempts   int
	Body       string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: error de red tras %d intento(s): %v", e.Method, e.Endpoint, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s %s: HTTP %d %s (intentos: %d)", e.Method, e.Endpoint, e.Status, e.StatusText, e.Attempts)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Classify determina la categoría del error inspeccionando su tipo y código.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) || errors.Is(err, ErrInvalidInput) {
		return KindValidation
	}
	var hErr *HTTPError
	if errors.As(err, &hErr) {
		switch {
		case hErr.Status == 0:
			return KindNetwork
		case hErr.Status == 401:
			return KindAuth
		case hErr.Status == 403:
			return KindPermission
		case hErr.Status == 404:
			return KindNotFound
		case hErr.Status >= 500:
			return KindServer
		}
	}
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrLoginRequired), errors.Is(err, ErrInvalidCredentials):
		return KindAuth
	case errors.Is(err, ErrForbidden):
		return KindPermission
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProductNotFound):
		return KindNotFound
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindUnknown
}

// UserMessage mensaje amigable para mostrar al usuario según la categoría.
func UserMessage(kind ErrorKind) string {
	switch kind {
	case KindValidation:
		return "Por favor, revisa los datos ingresados"
	case KindNetwork:
		return "Error de conexión. Verifica tu conexión a internet e intenta nuevamente"
	case KindAuth:
		return "Sesión expirada. Por favor, inicia sesión nuevamente"
	case KindPermission:
		return "No tienes permisos para realizar esta acción"
	case KindNotFound:
		return "El recurso solicitado no fue encontrado"
	case KindServer:
		return "Error del servidor. Intenta nuevamente en unos minutos"
	default:
		return "Ha ocurrido un error inesperado. Intenta nuevamente"
	}
}
