package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
)

// DefaultHistoryLimit capacidad por defecto del historial de undo.
const DefaultHistoryLimit = 50

// Listener recibe el valor seleccionado (o el estado completo) y la acción
// que provocó el cambio. Un error o panic se reporta sin cortar a los demás.
type Listener func(value any, action Action) error

// Middleware corre antes del reducer y puede transformar la acción; un error
// cancela el dispatch.
type Middleware func(action Action, s *Store) (Action, error)

// ErrorReporter destino de los errores de suscriptores (ver errorhandler).
type ErrorReporter interface {
	Report(err error, meta map[string]any)
}

// HistoryEntry estado previo a una acción.
type HistoryEntry struct {
	State  AppState
	Action Action
	At     time.Time
}

// Stats métricas del store.
type Stats struct {
	Listeners    int `json:"listeners"`
	History      int `json:"history"`
	HistoryLimit int `json:"historyLimit"`
	Middlewares  int `json:"middlewares"`
	StateSize    int `json:"stateSize"` // bytes del estado serializado
}

type subscription struct {
	id       uint64
	selector string
	fn       Listener
}

var stateEqual = cmp.Options{cmpopts.EquateEmpty()}

// Store contenedor de estado. Dispatch es el único punto de mutación.
type Store struct {
	mu          sync.Mutex
	state       AppState
	initial     AppState
	history     []HistoryEntry
	limit       int
	subs        []subscription
	nextID      uint64
	middlewares []Middleware
	log         zerolog.Logger
	reporter    ErrorReporter
	now         func() time.Time
}

// Option configura el Store.
type Option func(*Store)

func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithMiddleware agrega middlewares en orden; la cadena queda fija al construir.
func WithMiddleware(m ...Middleware) Option {
	return func(s *Store) { s.middlewares = append(s.middlewares, m...) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithReporter(r ErrorReporter) Option {
	return func(s *Store) { s.reporter = r }
}

// WithInitialState reemplaza el estado inicial (y el destino de RESET_STATE).
func WithInitialState(st AppState) Option {
	return func(s *Store) { s.initial = st.Clone() }
}

// New construye el Store.
func New(opts ...Option) *Store {
	s := &Store{
		initial: InitialState(),
		limit:   DefaultHistoryLimit,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.initial.Clone()
	return s
}

// State copia del estado actual.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Select valor actual en la ruta (ver Select).
func (s *Store) Select(path string) any {
	return Select(s.State(), path)
}

// Dispatch aplica la acción. Sin cambio real (igualdad profunda) no se
// registra historial ni se notifica.
func (s *Store) Dispatch(a Action) error {
	if a == nil {
		return fmt.Errorf("dispatch: acción nil")
	}
	for i, m := range s.middlewares {
		next, err := m(a, s)
		if err != nil {
			return fmt.Errorf("middleware %d (%s): %w", i, a.Type(), err)
		}
		if next == nil {
			return fmt.Errorf("middleware %d (%s): acción nil", i, a.Type())
		}
		a = next
	}

	s.mu.Lock()
	prev := s.state
	next, err := Reduce(prev, a, s.initial)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if cmp.Equal(prev, next, stateEqual) {
		s.mu.Unlock()
		return nil
	}
	s.pushHistory(HistoryEntry{State: prev, Action: a, At: s.now()})
	s.state = next
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	s.notify(subs, prev, next, a)
	return nil
}

func (s *Store) pushHistory(e HistoryEntry) {
	s.history = append(s.history, e)
	if len(s.history) > s.limit {
		s.history = append([]HistoryEntry(nil), s.history[len(s.history)-s.limit:]...)
	}
}

// Undo restaura el estado previo a la última acción y notifica con Undo{}.
// Devuelve false si no hay historial.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	prev := s.state
	s.state = last.State
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	s.notify(subs, prev, last.State, Undo{})
	return true
}

// Subscribe registra un listener; selector "" recibe el estado completo.
// Devuelve la función para desuscribirse.
func (s *Store) Subscribe(fn Listener, selector string) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, selector: selector, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) notify(subs []subscription, prev, next AppState, a Action) {
	for _, sub := range subs {
		var value any
		if sub.selector == "" {
			value = next.Clone()
		} else {
			oldVal := Select(prev, sub.selector)
			newVal := Select(next, sub.selector)
			if cmp.Equal(oldVal, newVal, stateEqual) {
				continue
			}
			value = Select(next.Clone(), sub.selector)
		}
		if err := s.call(sub, value, a); err != nil {
			s.log.Error().Err(err).Uint64("listener", sub.id).Str("action", string(a.Type())).
				Msg("error en suscriptor del store")
			if s.reporter != nil {
				s.reporter.Report(err, map[string]any{
					"source":   "store.listener",
					"listener": sub.id,
					"selector": sub.selector,
					"action":   string(a.Type()),
				})
			}
		}
	}
}

func (s *Store) call(sub subscription, value any, a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic en suscriptor %d: %v", sub.id, r)
		}
	}()
	return sub.fn(value, a)
}

// History entradas del historial, de la más antigua a la más reciente.
func (s *Store) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	for i, e := range s.history {
		out[i] = HistoryEntry{State: e.State.Clone(), Action: e.Action, At: e.At}
	}
	return out
}

// Stats métricas actuales.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	size := 0
	if raw, err := json.Marshal(s.state); err == nil {
		size = len(raw)
	}
	return Stats{
		Listeners:    len(s.subs),
		History:      len(s.history),
		HistoryLimit: s.limit,
		Middlewares:  len(s.middlewares),
		StateSize:    size,
	}
}

// Persist guarda el estado actual serializado bajo key.
func (s *Store) Persist(ctx context.Context, kv repository.KVRepository, key string) error {
	return repository.SaveJSON(ctx, kv, key, s.State())
}

// Restore carga el estado guardado bajo key vía SET_STATE. Devuelve false si
// no había nada guardado.
func (s *Store) Restore(ctx context.Context, kv repository.KVRepository, key string) (bool, error) {
	var saved AppState
	ok, err := repository.LoadJSON(ctx, kv, key, &saved)
	if err != nil || !ok {
		return false, err
	}
	return true, s.Dispatch(SetState{Patch: StatePatch{
		User:     Some(saved.User),
		Cart:     Some(saved.Cart),
		Products: Some(saved.Products),
		Filters:  Some(saved.Filters),
		Loading:  Some(saved.Loading),
		Error:    Some(saved.Error),
		UI:       Some(saved.UI),
	}})
}
