// Package storage implementaciones del puerto KVRepository: memoria, SQLite
// y Redis (PostgreSQL vive en infrastructure/postgres).
package storage

import (
	"context"
	"sync"
)

// Memory almacenamiento en memoria del proceso; se pierde al reiniciar.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemory crea un almacenamiento vacío.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Memory) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Keys claves presentes (orden no determinado).
func (s *Memory) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	return out
}

func (s *Memory) Close() error { return nil }
