package helpers

import (
	"sync"
	"time"
)

// Debouncer retrasa la ejecución de fn hasta que pasen wait sin nuevas llamadas.
type Debouncer struct {
	mu    sync.Mutex
	fn    func()
	wait  time.Duration
	timer *time.Timer
}

// Debounce construye un Debouncer para fn.
func Debounce(fn func(), wait time.Duration) *Debouncer {
	return &Debouncer{fn: fn, wait: wait}
}

// Call reinicia la espera; fn se ejecuta una sola vez al terminar la ráfaga.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancela una ejecución pendiente. Devuelve true si había una.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Throttler ejecuta fn como máximo una vez por ventana limit.
type Throttler struct {
	mu    sync.Mutex
	fn    func()
	limit time.Duration
	last  time.Time
	now   func() time.Time
}

// Throttle construye un Throttler para fn.
func Throttle(fn func(), limit time.Duration) *Throttler {
	return &Throttler{fn: fn, limit: limit, now: time.Now}
}

// Call ejecuta fn si la ventana anterior ya expiró. Devuelve si se ejecutó.
func (t *Throttler) Call() bool {
	t.mu.Lock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.limit {
		t.mu.Unlock()
		return false
	}
	t.last = now
	t.mu.Unlock()
	t.fn()
	return true
}
