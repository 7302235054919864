// Package notify adaptador del puerto Notifier: guarda las últimas
// notificaciones en memoria para que la interfaz las consulte.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
)

// DefaultFeedSize cantidad de notificaciones retenidas.
const DefaultFeedSize = 50

// Notification aviso al usuario.
type Notification struct {
	ID      uint64    `json:"id"`
	Message string    `json:"message"`
	Level   string    `json:"level"`
	At      time.Time `json:"at"`
}

// Feed anillo de notificaciones; implementa ports.Notifier.
type Feed struct {
	mu     sync.Mutex
	items  []Notification
	size   int
	nextID uint64
	log    zerolog.Logger
}

var _ ports.Notifier = (*Feed)(nil)

// NewFeed crea el feed. size <= 0 usa DefaultFeedSize.
func NewFeed(size int, log zerolog.Logger) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{size: size, log: log}
}

// Notify agrega una notificación; niveles desconocidos se tratan como info.
func (f *Feed) Notify(message, level string) {
	switch level {
	case ports.LevelSuccess, ports.LevelError, ports.LevelInfo, ports.LevelWarning:
	default:
		level = ports.LevelInfo
	}
	f.mu.Lock()
	f.nextID++
	n := Notification{ID: f.nextID, Message: message, Level: level, At: time.Now()}
	f.items = append(f.items, n)
	if len(f.items) > f.size {
		f.items = append([]Notification(nil), f.items[len(f.items)-f.size:]...)
	}
	f.mu.Unlock()

	f.log.Debug().Uint64("id", n.ID).Str("level", level).Str("message", message).Msg("notificación")
}

// Since notificaciones con ID mayor a after, de la más antigua a la más reciente.
func (f *Feed) Since(after uint64) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, 0, len(f.items))
	for _, n := range f.items {
		if n.ID > after {
			out = append(out, n)
		}
	}
	return out
}

// Last última notificación, si existe.
func (f *Feed) Last() (Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == 0 {
		return Notification{}, false
	}
	return f.items[len(f.items)-1], true
}

// Clear vacía el feed.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
}
