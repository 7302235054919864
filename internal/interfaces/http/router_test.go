package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/application/admin"
	"github.com/PyKydo/LevelUpGamer/internal/application/auth"
	"github.com/PyKydo/LevelUpGamer/internal/application/cart"
	"github.com/PyKydo/LevelUpGamer/internal/application/catalog"
	"github.com/PyKydo/LevelUpGamer/internal/application/contact"
	"github.com/PyKydo/LevelUpGamer/internal/application/errorhandler"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/notify"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/storage"
	apphttp "github.com/PyKydo/LevelUpGamer/internal/interfaces/http"
)

type staticSource struct{}

func (staticSource) Products(context.Context) ([]entity.Product, error) {
	return []entity.Product{
		{Code: "JM001", Name: "Catan", Category: "Juegos de Mesa", Price: decimal.NewFromInt(29990), Stock: 10, IsActive: true},
		{Code: "AC001", Name: "Control Xbox", Category: "Accesorios", Price: decimal.NewFromInt(59990), Stock: 0, IsActive: true},
	}, nil
}

func (staticSource) Users(context.Context) ([]entity.User, error) {
	return []entity.User{
		{ID: "1", Name: "Admin", Email: "admin@duoc.cl", Password: "admin123", Role: entity.RoleAdministrador, IsActive: true},
		{ID: "2", Name: "Cliente", Email: "cliente@gmail.com", Password: "cliente123", Role: entity.RoleCliente, IsActive: true},
	}, nil
}

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	kv := storage.NewMemory()
	store := state.New()
	feed := notify.NewFeed(0, zerolog.Nop())
	v := validation.New()
	limits := validation.DefaultLimits()
	src := staticSource{}

	authUC := auth.NewAuthUseCase(store, src, kv, feed, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer})
	cartUC := cart.NewCartUseCase(store, src, kv, feed, cart.Config{})
	t.Cleanup(cartUC.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Store:     store,
		CatalogUC: catalog.NewCatalogUseCase(store, src, pricing.DefaultPolicy()),
		CartUC:    cartUC,
		AuthUC:    authUC,
		ContactUC: contact.NewContactUseCase(kv, feed, v, limits),
		AdminUC:   admin.NewAdminUseCase(src, kv, feed, admin.Config{}),
		Errors:    errorhandler.New(kv, feed, zerolog.Nop()),
		Feed:      feed,
		Validator: v,
		Limits:    limits,
		JWTSecret: testJWTSecret,
		Logger:    zerolog.Nop(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func TestRouter_Catalogo(t *testing.T) {
	app := newTestServer(t)

	status, body := call(t, app, http.MethodGet, "/api/products?sortBy=price&order=desc", "", nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Items []struct {
			Code string `json:"code"`
		} `json:"items"`
		Page struct {
			Total int `json:"total"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, "AC001", list.Items[0].Code)

	status, _ = call(t, app, http.MethodGet, "/api/products?minPrice=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodGet, "/api/products/NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, app, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["Accesorios","Juegos de Mesa"]`, string(body))
}

func TestRouter_AdminRequiereRol(t *testing.T) {
	app := newTestServer(t)

	status, _ := call(t, app, http.MethodGet, "/api/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	clientToken := login(t, app, "cliente@gmail.com", "cliente123")
	status, _ = call(t, app, http.MethodGet, "/api/admin/dashboard", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	adminToken := login(t, app, "admin@duoc.cl", "admin123")
	status, body := call(t, app, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var d struct {
		TotalProducts int `json:"totalProducts"`
		OutOfStock    int `json:"outOfStock"`
	}
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, 2, d.TotalProducts)
	assert.Equal(t, 1, d.OutOfStock)

	status, body = call(t, app, http.MethodPost, "/api/admin/products", adminToken, map[string]any{"name": "", "price": 1, "stock": 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"fields"`)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/export/products?format=xml", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))
}

func TestRouter_CarritoYCheckout(t *testing.T) {
	app := newTestServer(t)

	status, _ := call(t, app, http.MethodPost, "/api/cart/items", "", map[string]any{"productId": "AC001", "quantity": 1})
	assert.Equal(t, http.StatusConflict, status, "sin stock")

	status, _ = call(t, app, http.MethodPost, "/api/cart/items", "", map[string]any{"productId": "ZZ999", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, status)

	status, body := call(t, app, http.MethodPost, "/api/cart/items", "", map[string]any{"productId": "JM001", "quantity": 2})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Contains(t, string(body), `"totalItems":2`)

	status, body = call(t, app, http.MethodPost, "/api/cart/checkout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), `"redirect":"/login"`)

	login(t, app, "cliente@gmail.com", "cliente123")
	status, body = call(t, app, http.MethodPost, "/api/cart/checkout", "", nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var order entity.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.True(t, decimal.NewFromInt(53982).Equal(order.Total), order.Total.String())

	status, body = call(t, app, http.MethodGet, "/api/cart/orders", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), order.ID)

	status, _ = call(t, app, http.MethodPost, "/api/cart/checkout", "", nil)
	assert.Equal(t, http.StatusBadRequest, status, "carrito vacío")
}

func TestRouter_ValidacionYEstado(t *testing.T) {
	app := newTestServer(t)

	status, body := call(t, app, http.MethodPost, "/api/validate/contact", "", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Valid  bool                `json:"valid"`
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "comment")

	status, _ = call(t, app, http.MethodPost, "/api/validate/desconocido", "", map[string]string{})
	assert.Equal(t, http.StatusNotFound, status)

	call(t, app, http.MethodPost, "/api/cart/items", "", map[string]any{"productId": "JM001", "quantity": 1})
	status, body = call(t, app, http.MethodPost, "/api/state/undo", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"undone":true}`, string(body))

	status, body = call(t, app, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"totalItems":0`)

	status, body = call(t, app, http.MethodGet, "/api/notifications?after=0", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "agregado al carrito")
}
