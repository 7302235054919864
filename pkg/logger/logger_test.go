package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/pkg/logger"
)

type mapKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMapKV() *mapKV { return &mapKV{m: map[string][]byte{}} }

func (k *mapKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *mapKV) Set(_ context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = append([]byte(nil), value...)
	return nil
}

func TestNew_JSONEnProduccion(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info"}, logger.WithOutput(&buf))

	l.Debug().Msg("no debe salir")
	l.Info().Str("k", "v").Msg("hola")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hola", line["message"])
	assert.Equal(t, "v", line["k"])
	assert.Equal(t, "info", line["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("desconocido"))
}

func TestKVSink_FiltraPorNivelYAcota(t *testing.T) {
	kv := newMapKV()
	sink := logger.NewKVSink(kv, "levelup_logs", zerolog.WarnLevel, 3)
	var out bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "debug"}, logger.WithOutput(&out), logger.WithSink(sink))

	l.Info().Msg("info ignorado")
	for _, msg := range []string{"w1", "w2", "w3", "w4"} {
		l.Warn().Msg(msg)
	}

	entries, err := sink.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal(entries[0], &first))
	assert.Equal(t, "w2", first["message"], "la entrada más antigua se descarta")

	require.NoError(t, sink.Clear(context.Background()))
	entries, err = sink.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKVSink_ContenidoCorruptoSeReinicia(t *testing.T) {
	kv := newMapKV()
	require.NoError(t, kv.Set(context.Background(), "logs", []byte("{no-json")))
	sink := logger.NewKVSink(kv, "logs", zerolog.InfoLevel, 0)

	_, err := sink.WriteLevel(zerolog.ErrorLevel, []byte(`{"message":"x"}`+"\n"))
	require.NoError(t, err)

	entries, err := sink.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"message":"x"}`, string(entries[0]))
}
