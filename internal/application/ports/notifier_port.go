package ports

// Niveles de notificación.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// Notifier define el puerto de salida para notificaciones al usuario (toasts).
// Cualquier adaptador (feed en memoria, websocket, consola) debe implementarlo.
type Notifier interface {
	Notify(message, level string)
}

// NopNotifier descarta las notificaciones.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}
