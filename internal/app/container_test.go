package app_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/app"
	"github.com/PyKydo/LevelUpGamer/internal/application/catalog"
	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/storage"
	"github.com/PyKydo/LevelUpGamer/pkg/config"
	"github.com/PyKydo/LevelUpGamer/pkg/logger"
)

const productsJSON = `{"products":[
	{"code":"JM001","name":"Catan","category":"Juegos de Mesa","price":29990,"stock":10},
	{"code":"AC001","name":"Control Xbox","category":"Accesorios","price":59990,"stock":3,"isActive":false}
]}`

const usersJSON = `{"users":[
	{"id":"1","name":"Admin","email":"admin@duoc.cl","password":"admin123","role":"Administrador"}
]}`

func newDataServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/products.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, productsJSON)
	})
	mux.HandleFunc("/data/users.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, usersJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("STORAGE_DRIVER", config.DriverMemory)
	v.Set("DATA_BASE_URL", baseURL)
	v.Set("DATA_MAX_RETRIES", "0")
	v.Set("STORE_PAYMENT_DELAY", "1ms")
	v.Set("DISCOUNT_DUOC", "0.25")
	v.Set("VALIDATION_PASSWORD_MAX", "12")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func loginAdmin() dto.LoginRequest {
	return dto.LoginRequest{Email: "admin@duoc.cl", Password: "admin123"}
}

func TestBuild_CableaCasosDeUso(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, newDataServer(t).URL)
	kv := storage.NewMemory()

	c, err := app.Build(ctx, cfg, app.WithStorage(kv), app.WithLoggerOptions(logger.WithOutput(io.Discard)))
	require.NoError(t, err)

	assert.Equal(t, 12, c.Limits.PasswordMax)
	assert.Equal(t, "0.25", c.Policy.Rules[1].Rate.String())

	page, err := c.Catalog.Browse(ctx, catalog.Query{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "JM001", page.Items[0].Code)

	require.NoError(t, c.Warmup(ctx))
	users, err := c.Admin.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, c.Close(ctx))
	_, ok, err := kv.Get(ctx, repository.KeyStoreState)
	require.NoError(t, err)
	assert.True(t, ok, "el estado se persiste al cerrar")
}

func TestBuild_RestauraEstadoGuardado(t *testing.T) {
	ctx := context.Background()
	srv := newDataServer(t)
	kv := storage.NewMemory()

	first, err := app.Build(ctx, testConfig(t, srv.URL), app.WithStorage(kv), app.WithLoggerOptions(logger.WithOutput(io.Discard)))
	require.NoError(t, err)
	_, err = first.Auth.Login(ctx, loginAdmin())
	require.NoError(t, err)
	require.NoError(t, first.Close(ctx))

	second, err := app.Build(ctx, testConfig(t, srv.URL), app.WithStorage(kv), app.WithLoggerOptions(logger.WithOutput(io.Discard)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close(ctx) })

	require.NotNil(t, second.Store.State().User)
	assert.Equal(t, "admin@duoc.cl", second.Store.State().User.Email)
}

func TestBuild_AutoguardaEstadoTrasRafaga(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, newDataServer(t).URL)
	cfg.Store.AutosaveDelay = 10 * time.Millisecond
	kv := storage.NewMemory()

	c, err := app.Build(ctx, cfg, app.WithStorage(kv), app.WithLoggerOptions(logger.WithOutput(io.Discard)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(ctx) })

	_, ok, err := kv.Get(ctx, repository.KeyStoreState)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = c.Auth.Login(ctx, loginAdmin())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		raw, ok, err := kv.Get(ctx, repository.KeyStoreState)
		return err == nil && ok && strings.Contains(string(raw), "admin@duoc.cl")
	}, time.Second, 5*time.Millisecond, "el estado se guarda sin esperar al cierre")
}

func TestLimitsFrom_IgnoraValoresNoPositivos(t *testing.T) {
	l := app.LimitsFrom(config.ValidationConfig{PasswordMin: 6, NameMax: -1})
	assert.Equal(t, 6, l.PasswordMin)
	assert.Equal(t, 50, l.NameMax)
	assert.NotEmpty(t, l.EmailDomains)
}
