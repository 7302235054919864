// Package errorhandler manejo centralizado de errores: clasifica, registra,
// guarda un historial acotado y avisa al usuario.
package errorhandler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
)

// DefaultLimit entradas retenidas en el historial de errores.
const DefaultLimit = 50

// DefaultLoginPath destino de la redirección en errores de autenticación.
const DefaultLoginPath = "/login"

// Entry error registrado.
type Entry struct {
	Kind      domain.ErrorKind    `json:"type"`
	Message   string              `json:"message"`
	Context   map[string]any      `json:"context,omitempty"`
	Status    int                 `json:"status,omitempty"`
	Endpoint  string              `json:"endpoint,omitempty"`
	Attempts  int                 `json:"attempts,omitempty"`
	Fields    map[string][]string `json:"validationErrors,omitempty"`
	Redirect  string              `json:"redirect,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// UserMessage mensaje amigable para mostrar.
func (e Entry) UserMessage() string {
	if e.Kind == domain.KindValidation && len(e.Fields) > 0 {
		return "Error de validación: " + strings.Join(domain.NewValidationError(e.Fields).Messages(), ", ")
	}
	return domain.UserMessage(e.Kind)
}

// NotificationLevel warning para validación, error para el resto.
func (e Entry) NotificationLevel() string {
	if e.Kind == domain.KindValidation {
		return ports.LevelWarning
	}
	return ports.LevelError
}

// Stats resumen del historial.
type Stats struct {
	Total     int                      `json:"total"`
	ByType    map[domain.ErrorKind]int `json:"byType"`
	LastError *Entry                   `json:"lastError,omitempty"`
}

// Handler manejador de errores.
type Handler struct {
	mu        sync.Mutex
	kv        repository.KVRepository
	notifier  ports.Notifier
	log       zerolog.Logger
	limit     int
	loginPath string
	now       func() time.Time
	// networkNotice limita los avisos de red repetidos (nil: sin límite)
	networkNotice *helpers.Throttler
}

// Option configura el Handler.
type Option func(*Handler)

func WithLimit(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.limit = n
		}
	}
}

func WithLoginPath(p string) Option {
	return func(h *Handler) { h.loginPath = p }
}

// WithNetworkNoticeWindow avisa como máximo una vez por ventana de los errores
// de red; el historial los registra todos. window <= 0 no limita.
func WithNetworkNoticeWindow(window time.Duration) Option {
	return func(h *Handler) {
		if window <= 0 {
			h.networkNotice = nil
			return
		}
		h.networkNotice = helpers.Throttle(func() {
			h.notifier.Notify(domain.UserMessage(domain.KindNetwork), ports.LevelError)
		}, window)
	}
}

// New construye el handler. notifier puede ser nil.
func New(kv repository.KVRepository, notifier ports.Notifier, log zerolog.Logger, opts ...Option) *Handler {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	h := &Handler{
		kv:        kv,
		notifier:  notifier,
		log:       log,
		limit:     DefaultLimit,
		loginPath: DefaultLoginPath,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Analyze construye la entrada sin registrarla.
func (h *Handler) Analyze(err error, meta map[string]any) Entry {
	e := Entry{
		Kind:      domain.Classify(err),
		Message:   err.Error(),
		Context:   meta,
		Timestamp: h.now(),
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		e.Fields = vErr.Fields
	}
	var hErr *domain.HTTPError
	if errors.As(err, &hErr) {
		e.Status = hErr.Status
		e.Endpoint = hErr.Endpoint
		e.Attempts = hErr.Attempts
	}
	if e.Kind == domain.KindAuth {
		e.Redirect = h.loginPath
	}
	return e
}

// Handle clasifica, registra, guarda y notifica al usuario.
func (h *Handler) Handle(ctx context.Context, err error, meta map[string]any) Entry {
	if err == nil {
		return Entry{}
	}
	e := h.record(ctx, err, meta)
	if e.Kind == domain.KindNetwork && h.networkNotice != nil {
		if !h.networkNotice.Call() {
			h.log.Debug().Msg("aviso de red omitido")
		}
		return e
	}
	h.notifier.Notify(e.UserMessage(), e.NotificationLevel())
	return e
}

// Report registra sin notificar al usuario (errores internos, p. ej. suscriptores del store).
func (h *Handler) Report(err error, meta map[string]any) {
	if err == nil {
		return
	}
	h.record(context.Background(), err, meta)
}

// Wrap ejecuta fn y maneja su error, que se devuelve sin cambios.
func (h *Handler) Wrap(ctx context.Context, fn func() error, meta map[string]any) error {
	err := fn()
	if err != nil {
		h.Handle(ctx, err, meta)
	}
	return err
}

func (h *Handler) record(ctx context.Context, err error, meta map[string]any) Entry {
	e := h.Analyze(err, meta)

	ev := h.log.Error()
	if e.Kind == domain.KindValidation {
		ev = h.log.Warn()
	}
	ev.Err(err).Str("type", string(e.Kind)).Interface("context", meta).Msg("error manejado")

	h.mu.Lock()
	defer h.mu.Unlock()
	logs, lerr := h.load(ctx)
	if lerr != nil {
		h.log.Warn().Err(lerr).Msg("no se pudo leer el log de errores")
	}
	logs = append(logs, e)
	if len(logs) > h.limit {
		logs = logs[len(logs)-h.limit:]
	}
	if serr := repository.SaveJSON(ctx, h.kv, repository.KeyErrorLogs, logs); serr != nil {
		h.log.Warn().Err(serr).Msg("no se pudo guardar el log de errores")
	}
	return e
}

func (h *Handler) load(ctx context.Context) ([]Entry, error) {
	var logs []Entry
	if _, err := repository.LoadJSON(ctx, h.kv, repository.KeyErrorLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Logs historial de errores, del más antiguo al más reciente.
func (h *Handler) Logs(ctx context.Context) ([]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// Stats totales por tipo y último error.
func (h *Handler) Stats(ctx context.Context) (Stats, error) {
	logs, err := h.Logs(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(logs), ByType: map[domain.ErrorKind]int{}}
	for _, e := range logs {
		st.ByType[e.Kind]++
	}
	if len(logs) > 0 {
		last := logs[len(logs)-1]
		st.LastError = &last
	}
	return st, nil
}

// Clear borra el historial.
func (h *Handler) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kv.Delete(ctx, repository.KeyErrorLogs)
}
