package errorhandler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/application/errorhandler"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/notify"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/storage"
)

func newHandler(opts ...errorhandler.Option) (*errorhandler.Handler, *notify.Feed) {
	feed := notify.NewFeed(10, zerolog.Nop())
	return errorhandler.New(storage.NewMemory(), feed, zerolog.Nop(), opts...), feed
}

func TestHandle_ClasificaGuardaYNotifica(t *testing.T) {
	ctx := context.Background()
	h, feed := newHandler()

	e := h.Handle(ctx, &domain.HTTPError{Status: 503, Endpoint: "/data/products.json", Attempts: 4}, map[string]any{"op": "products"})
	assert.Equal(t, domain.KindServer, e.Kind)
	assert.Equal(t, 503, e.Status)
	assert.Equal(t, 4, e.Attempts)
	assert.Empty(t, e.Redirect)

	last, ok := feed.Last()
	require.True(t, ok)
	assert.Equal(t, "error", last.Level)
	assert.Contains(t, last.Message, "Error del servidor")

	logs, err := h.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "/data/products.json", logs[0].Endpoint)
}

func TestHandle_Validacion(t *testing.T) {
	h, feed := newHandler()
	err := domain.NewValidationError(map[string][]string{"email": {"El correo es requerido"}})
	e := h.Handle(context.Background(), fmt.Errorf("registro: %w", err), nil)

	assert.Equal(t, domain.KindValidation, e.Kind)
	assert.Equal(t, []string{"El correo es requerido"}, e.Fields["email"])

	last, _ := feed.Last()
	assert.Equal(t, "warning", last.Level)
	assert.Equal(t, "Error de validación: El correo es requerido", last.Message)
}

func TestHandle_AvisosDeRedLimitadosPorVentana(t *testing.T) {
	ctx := context.Background()
	h, feed := newHandler(errorhandler.WithNetworkNoticeWindow(time.Hour))

	for range 3 {
		e := h.Handle(ctx, &domain.HTTPError{Status: 0, Endpoint: "/data/products.json"}, nil)
		assert.Equal(t, domain.KindNetwork, e.Kind)
	}
	h.Handle(ctx, &domain.HTTPError{Status: 500}, nil)

	notes := feed.Since(0)
	require.Len(t, notes, 2)
	assert.Equal(t, domain.UserMessage(domain.KindNetwork), notes[0].Message)
	assert.Contains(t, notes[1].Message, "Error del servidor")

	logs, err := h.Logs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 4)
}

func TestHandle_AuthRedirige(t *testing.T) {
	h, _ := newHandler(errorhandler.WithLoginPath("/auth/login"))
	e := h.Handle(context.Background(), domain.ErrLoginRequired, nil)
	assert.Equal(t, domain.KindAuth, e.Kind)
	assert.Equal(t, "/auth/login", e.Redirect)
}

func TestReport_NoNotifica(t *testing.T) {
	h, feed := newHandler()
	h.Report(errors.New("listener roto"), map[string]any{"source": "store.listener"})
	_, ok := feed.Last()
	assert.False(t, ok)

	logs, err := h.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.KindUnknown, logs[0].Kind)
}

func TestHistorialAcotadoYStats(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler(errorhandler.WithLimit(3))
	h.Report(domain.ErrForbidden, nil)
	h.Report(domain.ErrProductNotFound, nil)
	h.Report(domain.ErrProductNotFound, nil)
	h.Report(domain.ErrLoginRequired, nil)

	st, err := h.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.ByType[domain.KindNotFound])
	assert.Zero(t, st.ByType[domain.KindPermission], "el más antiguo se descartó")
	require.NotNil(t, st.LastError)
	assert.Equal(t, domain.KindAuth, st.LastError.Kind)

	require.NoError(t, h.Clear(ctx))
	logs, err := h.Logs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestWrap(t *testing.T) {
	h, feed := newHandler()
	assert.NoError(t, h.Wrap(context.Background(), func() error { return nil }, nil))
	_, ok := feed.Last()
	assert.False(t, ok)

	err := h.Wrap(context.Background(), func() error { return domain.ErrForbidden }, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	last, _ := feed.Last()
	assert.Contains(t, last.Message, "permisos")
}
