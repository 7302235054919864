package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/storage"
)

type staticProducts []entity.Product

func (s staticProducts) Products(context.Context) ([]entity.Product, error) { return s, nil }

type recorder struct {
	mu       sync.Mutex
	messages []string
	levels   []string
}

func (r *recorder) Notify(message, level string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	r.levels = append(r.levels, level)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

type fakeSales struct{ orders []entity.Order }

func (f *fakeSales) RecordSale(_ context.Context, o entity.Order) error {
	f.orders = append(f.orders, o)
	return nil
}

type fakeReceipts struct{}

func (fakeReceipts) GenerateReceipt(_ context.Context, o entity.Order) ([]byte, error) {
	return []byte("%PDF " + o.ID), nil
}

var catalog = staticProducts{
	{Code: "A", Name: "Catan", Category: "Juegos de Mesa", Price: decimal.NewFromInt(1000), Stock: 5, IsActive: true},
	{Code: "B", Name: "Mouse", Category: "Mouse", Price: decimal.NewFromInt(25000), Stock: 0, IsActive: true},
	{Code: "C", Name: "Silla", Category: "Sillas", Price: decimal.NewFromInt(300), Stock: 2, IsActive: false},
}

type fixture struct {
	uc    *CartUseCase
	store *state.Store
	kv    *storage.Memory
	notes *recorder
	sales *fakeSales
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		store: state.New(),
		kv:    storage.NewMemory(),
		notes: &recorder{},
		sales: &fakeSales{},
	}
	f.uc = NewCartUseCase(f.store, catalog, f.kv, f.notes, Config{Sales: f.sales, Receipts: fakeReceipts{}})
	require.NoError(t, f.uc.Load(context.Background()))
	t.Cleanup(f.uc.Close)
	return f
}

func (f fixture) login(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, f.store.Dispatch(state.SetState{Patch: state.StatePatch{
		User: state.Some(&entity.User{ID: "u-1", Name: "Ana", LastName: "Pérez", Email: email, Role: entity.RoleCliente}),
	}}))
}

func decEq(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "%s: want %d, got %s", msg, want, got)
}

func TestAdd_AcumulaYPersiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 1}))
	require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 2}))

	assert.Equal(t, []entity.CartLine{{ProductID: "A", Quantity: 3}}, f.store.State().Cart)
	assert.Equal(t, "Catan agregado al carrito", f.notes.last())

	var saved []entity.CartLine
	ok, err := repository.LoadJSON(ctx, f.kv, repository.KeyCart, &saved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.store.State().Cart, saved)
}

func TestAdd_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.uc.Add(ctx, dto.CartItemRequest{ProductID: "", Quantity: 0})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "productId")
	assert.Contains(t, vErr.Fields, "quantity")

	assert.ErrorIs(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "Z", Quantity: 1}), domain.ErrProductNotFound)
	assert.ErrorIs(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "B", Quantity: 1}), domain.ErrProductUnavailable)
	assert.ErrorIs(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "C", Quantity: 1}), domain.ErrProductUnavailable)
	assert.ErrorIs(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 6}), domain.ErrInsufficientStock)
	assert.Empty(t, f.store.State().Cart)
}

func TestIncrease_TopeDeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 4}))

	require.NoError(t, f.uc.Increase(ctx, "A"))
	assert.Equal(t, 5, f.store.State().Cart[0].Quantity)

	assert.ErrorIs(t, f.uc.Increase(ctx, "A"), domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.store.State().Cart[0].Quantity)
	assert.Equal(t, "No hay suficiente stock disponible", f.notes.last())

	assert.ErrorIs(t, f.uc.Increase(ctx, "X"), domain.ErrNotFound)
}

func TestDecrease_DesdeUnoEliminaLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 2}))

	require.NoError(t, f.uc.Decrease(ctx, "A"))
	assert.Equal(t, 1, f.store.State().Cart[0].Quantity)

	require.NoError(t, f.uc.Decrease(ctx, "A"))
	assert.Empty(t, f.store.State().Cart)
	assert.Equal(t, "Catan eliminado del carrito", f.notes.last())
}

func TestDecrease_SinLineaNoHaceNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 1}))

	require.NoError(t, f.uc.Decrease(ctx, "X"))
	assert.Equal(t, []entity.CartLine{{ProductID: "A", Quantity: 1}}, f.store.State().Cart)
}

func TestPersist_ConcurrenteCoincideConStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				code := fmt.Sprintf("P%d-%d", round, i)
				assert.NoError(t, f.store.Dispatch(state.AddToCart{ProductID: code, Quantity: 1}))
			}(i)
		}
		wg.Wait()

		var saved []entity.CartLine
		ok, err := repository.LoadJSON(ctx, f.kv, repository.KeyCart, &saved)
		require.NoError(t, err)
		require.True(t, ok)
		require.ElementsMatch(t, f.store.State().Cart, saved, "ronda %d", round)
	}
	assert.Len(t, f.store.State().Cart, 20*50)
}

func TestClear_VaciaYPersiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 2}))
	require.NoError(t, f.uc.Clear(ctx))
	assert.Empty(t, f.store.State().Cart)

	var saved []entity.CartLine
	_, err := repository.LoadJSON(ctx, f.kv, repository.KeyCart, &saved)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSummary_Escenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("sin usuario", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 2}))
		s, err := f.uc.Summary(ctx)
		require.NoError(t, err)
		decEq(t, 2000, s.Subtotal, "subtotal")
		decEq(t, 0, s.Discount, "discount")
		decEq(t, 2000, s.Total, "total")
		assert.Equal(t, "$2.000", s.FormattedTotal)
	})

	t.Run("correo duoc", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "alumno@duoc.cl")
		require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 2}))
		s, err := f.uc.Summary(ctx)
		require.NoError(t, err)
		require.Len(t, s.Lines, 1)
		decEq(t, 700, s.Lines[0].DiscountedPrice, "unit")
		decEq(t, 1400, s.Subtotal, "subtotal")
		decEq(t, 600, s.Discount, "discount")
		decEq(t, 1400, s.Total, "total")
		assert.True(t, s.Lines[0].CanIncrease)
	})
}

func TestLoad_RestauraCarrito(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, repository.SaveJSON(ctx, kv, repository.KeyCart, []entity.CartLine{{ProductID: "A", Quantity: 2}}))

	store := state.New()
	uc := NewCartUseCase(store, catalog, kv, nil, Config{})
	require.NoError(t, uc.Load(ctx))
	t.Cleanup(uc.Close)

	assert.Equal(t, []entity.CartLine{{ProductID: "A", Quantity: 2}}, store.State().Cart)
}

func TestCheckout_Escenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("requiere sesión", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 1}))
		_, err := f.uc.Checkout(ctx)
		assert.ErrorIs(t, err, domain.ErrLoginRequired)
		assert.Equal(t, "Debes iniciar sesión para continuar", f.notes.last())
	})

	t.Run("carrito vacío", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "cliente@gmail.com")
		_, err := f.uc.Checkout(ctx)
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("stock insuficiente", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "cliente@gmail.com")
		require.NoError(t, f.store.Dispatch(state.SetCart{Cart: []entity.CartLine{{ProductID: "A", Quantity: 9}}}))
		_, err := f.uc.Checkout(ctx)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Len(t, f.store.State().Cart, 1)
	})

	t.Run("compra exitosa", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "cliente@gmail.com")
		require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 2}))

		order, err := f.uc.Checkout(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, "u-1", order.UserID)
		assert.Equal(t, "Ana Pérez", order.UserName)
		decEq(t, 1800, order.Total, "total con 10%")
		decEq(t, 200, order.Discount, "descuento")
		assert.Empty(t, f.store.State().Cart)
		assert.Equal(t, "¡Compra realizada con éxito!", f.notes.last())
		require.Len(t, f.sales.orders, 1)

		orders, err := f.uc.Orders(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)

		other, err := f.uc.Orders(ctx, "u-2")
		require.NoError(t, err)
		assert.Empty(t, other)

		pdf, err := f.uc.Receipt(ctx, order.ID, "u-1")
		require.NoError(t, err)
		assert.Contains(t, string(pdf), order.ID)

		_, err = f.uc.Receipt(ctx, "nope", "u-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("cancelado durante el pago", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "cliente@gmail.com")
		require.NoError(t, f.uc.Add(ctx, dto.CartItemRequest{ProductID: "A", Quantity: 1}))
		f.uc.cfg.PaymentDelay = 1
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.uc.Checkout(cctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, f.store.State().Cart, 1)
	})
}

var _ ports.ProductSource = staticProducts(nil)
