package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultSinkLimit cantidad de líneas retenidas por defecto en el sink persistido.
const DefaultSinkLimit = 100

// KV almacenamiento clave-valor mínimo que usa el sink (ver repository.KVRepository).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// KVSink persiste las líneas de log con nivel >= Level en un anillo acotado
// guardado como arreglo JSON bajo Key. Implementa zerolog.LevelWriter.
type KVSink struct {
	mu    sync.Mutex
	kv    KV
	key   string
	level zerolog.Level
	limit int
}

// NewKVSink construye el sink. limit <= 0 usa DefaultSinkLimit.
func NewKVSink(kv KV, key string, level zerolog.Level, limit int) *KVSink {
	if limit <= 0 {
		limit = DefaultSinkLimit
	}
	return &KVSink{kv: kv, key: key, level: level, limit: limit}
}

// Write sin nivel conocido: se persiste siempre.
func (s *KVSink) Write(p []byte) (int, error) {
	return s.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel agrega la línea si alcanza el nivel mínimo; descarta las más antiguas.
func (s *KVSink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level != zerolog.NoLevel && level < s.level {
		return len(p), nil
	}
	line := bytes.TrimSpace(p)
	if !json.Valid(line) {
		// Salida de consola u otro formato: se guarda como string.
		quoted, err := json.Marshal(string(line))
		if err != nil {
			return 0, err
		}
		line = quoted
	} else {
		// zerolog reutiliza el buffer
		line = append([]byte(nil), line...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	entries, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	entries = append(entries, line)
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return 0, err
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Entries devuelve las líneas persistidas, de la más antigua a la más reciente.
func (s *KVSink) Entries(ctx context.Context) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Clear vacía el anillo.
func (s *KVSink) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(ctx, s.key, []byte("[]"))
}

func (s *KVSink) load(ctx context.Context) ([]json.RawMessage, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil || !ok {
		return nil, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		// contenido corrupto: se reinicia el anillo
		return nil, nil
	}
	return entries, nil
}
