// Package cart casos de uso del carrito: agregar, ajustar cantidades,
// resumen con descuentos y checkout simulado.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/ports"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
)

// Config dependencias opcionales y tiempos del checkout.
type Config struct {
	Policy       pricing.Policy
	PaymentDelay time.Duration
	Sales        repository.SalesRecorder
	Receipts     ports.ReceiptGenerator
	Validator    *validation.Validator
	Logger       zerolog.Logger
}

// CartUseCase opera el carrito del Store y lo persiste en el KV.
type CartUseCase struct {
	store    *state.Store
	products ports.ProductSource
	kv       repository.KVRepository
	notifier ports.Notifier
	cfg      Config
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	persistOnce sync.Once
	persistMu   sync.Mutex
	unsubscribe func()
}

// NewCartUseCase construye el caso de uso del carrito.
func NewCartUseCase(store *state.Store, products ports.ProductSource, kv repository.KVRepository, notifier ports.Notifier, cfg Config) *CartUseCase {
	if cfg.Validator == nil {
		cfg.Validator = validation.New()
	}
	if cfg.Policy.Rules == nil {
		cfg.Policy = pricing.DefaultPolicy()
	}
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &CartUseCase{
		store:    store,
		products: products,
		kv:       kv,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Load restaura el carrito guardado y desde ahí persiste cada cambio.
func (uc *CartUseCase) Load(ctx context.Context) error {
	var lines []entity.CartLine
	ok, err := repository.LoadJSON(ctx, uc.kv, repository.KeyCart, &lines)
	if err != nil {
		uc.cfg.Logger.Warn().Err(err).Msg("carrito guardado ilegible, se descarta")
	}
	if ok && err == nil {
		if err := uc.store.Dispatch(state.SetCart{Cart: lines}); err != nil {
			return err
		}
	}
	uc.persistOnce.Do(func() {
		uc.unsubscribe = uc.store.Subscribe(uc.persist, "cart")
	})
	return nil
}

// persist guarda el carrito vigente del Store, no el valor notificado: las
// notificaciones de dispatches concurrentes pueden llegar desordenadas.
func (uc *CartUseCase) persist(_ any, _ state.Action) error {
	uc.persistMu.Lock()
	defer uc.persistMu.Unlock()
	lines := uc.store.State().Cart
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return repository.SaveJSON(context.Background(), uc.kv, repository.KeyCart, lines)
}

// Close deja de persistir el carrito.
func (uc *CartUseCase) Close() {
	if uc.unsubscribe != nil {
		uc.unsubscribe()
	}
}

func (uc *CartUseCase) catalog(ctx context.Context) ([]entity.Product, error) {
	return uc.products.Products(ctx)
}

func (uc *CartUseCase) line(productID string) (entity.CartLine, bool) {
	for _, l := range uc.store.State().Cart {
		if l.ProductID == productID {
			return l, true
		}
	}
	return entity.CartLine{}, false
}

// Add agrega quantity unidades. El producto debe existir, estar activo y
// tener stock para la cantidad acumulada.
func (uc *CartUseCase) Add(ctx context.Context, in dto.CartItemRequest) error {
	if res := uc.cfg.Validator.ValidateForm(in.Form(), validation.CartItemRules()); !res.Valid() {
		return res.Err()
	}
	products, err := uc.catalog(ctx)
	if err != nil {
		return err
	}
	p, ok := entity.FindProduct(products, in.ProductID)
	if !ok {
		uc.notifier.Notify("Error al agregar producto al carrito", ports.LevelError)
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.ProductID)
	}
	if !p.IsActive || p.IsOutOfStock() {
		uc.notifier.Notify("El producto no está disponible", ports.LevelError)
		return domain.ErrProductUnavailable
	}
	current, _ := uc.line(p.Code)
	if current.Quantity+in.Quantity > p.Stock {
		uc.notifier.Notify("No hay suficiente stock disponible", ports.LevelError)
		return domain.ErrInsufficientStock
	}
	if err := uc.store.Dispatch(state.AddToCart{ProductID: p.Code, Quantity: in.Quantity}); err != nil {
		return err
	}
	uc.notifier.Notify(p.Name+" agregado al carrito", ports.LevelSuccess)
	return nil
}

// Increase suma una unidad sin superar el stock.
func (uc *CartUseCase) Increase(ctx context.Context, productID string) error {
	item, ok := uc.line(productID)
	if !ok {
		return fmt.Errorf("%w: %s no está en el carrito", domain.ErrNotFound, productID)
	}
	products, err := uc.catalog(ctx)
	if err != nil {
		return err
	}
	p, ok := entity.FindProduct(products, productID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	if item.Quantity >= p.Stock {
		uc.notifier.Notify("No hay suficiente stock disponible", ports.LevelError)
		return domain.ErrInsufficientStock
	}
	return uc.setQuantity(productID, item.Quantity+1)
}

// Decrease resta una unidad; desde 1 elimina la línea. Sin línea no hace nada.
func (uc *CartUseCase) Decrease(ctx context.Context, productID string) error {
	item, ok := uc.line(productID)
	if !ok {
		return nil
	}
	if item.Quantity <= 1 {
		return uc.Remove(ctx, productID)
	}
	return uc.setQuantity(productID, item.Quantity-1)
}

func (uc *CartUseCase) setQuantity(productID string, q int) error {
	if err := uc.store.Dispatch(state.UpdateCartItem{ProductID: productID, Patch: entity.CartLinePatch{Quantity: &q}}); err != nil {
		return err
	}
	uc.notifier.Notify("Cantidad actualizada", ports.LevelSuccess)
	return nil
}

// Remove elimina la línea del producto.
func (uc *CartUseCase) Remove(ctx context.Context, productID string) error {
	if err := uc.store.Dispatch(state.RemoveFromCart{ProductID: productID}); err != nil {
		return err
	}
	if products, err := uc.catalog(ctx); err == nil {
		if p, ok := entity.FindProduct(products, productID); ok {
			uc.notifier.Notify(p.Name+" eliminado del carrito", ports.LevelInfo)
		}
	}
	return nil
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(_ context.Context) error {
	if err := uc.store.Dispatch(state.ClearCart{}); err != nil {
		return err
	}
	uc.notifier.Notify("Carrito vaciado", ports.LevelInfo)
	return nil
}

// Quote totales del carrito para el usuario en sesión.
func (uc *CartUseCase) Quote(ctx context.Context) (pricing.Summary, error) {
	products, err := uc.catalog(ctx)
	if err != nil {
		return pricing.Summary{}, err
	}
	st := uc.store.State()
	return uc.cfg.Policy.Quote(st.Cart, products, st.User), nil
}

// Summary resumen listo para mostrar.
func (uc *CartUseCase) Summary(ctx context.Context) (dto.CartSummaryResponse, error) {
	q, err := uc.Quote(ctx)
	if err != nil {
		return dto.CartSummaryResponse{}, err
	}
	return toSummaryResponse(q), nil
}

func toSummaryResponse(q pricing.Summary) dto.CartSummaryResponse {
	out := dto.CartSummaryResponse{
		Lines:             make([]dto.CartLineView, 0, len(q.Lines)),
		Items:             q.Items,
		TotalItems:        q.TotalItems,
		DiscountRate:      q.Rate,
		Subtotal:          q.Subtotal,
		Discount:          q.Discount,
		Total:             q.Total,
		FormattedSubtotal: helpers.FormatPrice(q.Subtotal),
		FormattedDiscount: helpers.FormatPrice(q.Discount),
		FormattedTotal:    helpers.FormatPrice(q.Total),
	}
	for _, l := range q.Lines {
		out.Lines = append(out.Lines, dto.CartLineView{
			ProductID:       l.Product.Code,
			Name:            l.Product.Name,
			Category:        l.Product.Category,
			Image:           l.Product.Image,
			Quantity:        l.Quantity,
			Price:           l.UnitPrice,
			DiscountedPrice: l.Discounted,
			Subtotal:        l.Subtotal,
			LowStock:        l.Product.IsLowStock(),
			CanIncrease:     l.Quantity < l.Product.Stock,
		})
	}
	return out
}

// Checkout requiere sesión, revalida el stock, simula el pago y registra la
// orden. El carrito se vacía al terminar.
func (uc *CartUseCase) Checkout(ctx context.Context) (entity.Order, error) {
	st := uc.store.State()
	if st.User == nil {
		uc.notifier.Notify("Debes iniciar sesión para continuar", ports.LevelError)
		return entity.Order{}, domain.ErrLoginRequired
	}
	if len(st.Cart) == 0 {
		return entity.Order{}, domain.ErrEmptyCart
	}
	products, err := uc.catalog(ctx)
	if err != nil {
		return entity.Order{}, err
	}
	for _, l := range st.Cart {
		if p, ok := entity.FindProduct(products, l.ProductID); ok && p.Stock < l.Quantity {
			uc.notifier.Notify("Algunos productos no tienen suficiente stock", ports.LevelError)
			return entity.Order{}, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, p.Name)
		}
	}

	uc.notifier.Notify("Redirigiendo al proceso de pago...", ports.LevelInfo)
	if err := uc.sleep(ctx, uc.cfg.PaymentDelay); err != nil {
		return entity.Order{}, err
	}

	q := uc.cfg.Policy.Quote(st.Cart, products, st.User)
	order := newOrder(q, *st.User, uc.now())
	if err := uc.saveOrder(ctx, order); err != nil {
		return entity.Order{}, err
	}
	if uc.cfg.Sales != nil {
		if err := uc.cfg.Sales.RecordSale(ctx, order); err != nil {
			uc.cfg.Logger.Warn().Err(err).Str("order_id", order.ID).Msg("no se pudo registrar la venta")
		}
	}
	if err := uc.store.Dispatch(state.ClearCart{}); err != nil {
		return order, err
	}
	uc.cfg.Logger.Info().
		Str("order_id", order.ID).
		Str("user", order.UserEmail).
		Str("total", order.Total.String()).
		Msg("compra realizada")
	uc.notifier.Notify("¡Compra realizada con éxito!", ports.LevelSuccess)
	return order, nil
}

func newOrder(q pricing.Summary, u entity.User, at time.Time) entity.Order {
	o := entity.Order{
		ID:           helpers.NewID(),
		UserID:       u.ID,
		UserEmail:    u.Email,
		UserName:     u.FullName(),
		Lines:        make([]entity.OrderLine, 0, len(q.Lines)),
		Subtotal:     q.Subtotal,
		Discount:     q.Discount,
		Total:        q.Total,
		DiscountRate: q.Rate,
		CreatedAt:    at,
	}
	for _, l := range q.Lines {
		o.Lines = append(o.Lines, entity.OrderLine{
			ProductID:  l.Product.Code,
			Name:       l.Product.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Discounted: l.Discounted,
			Subtotal:   l.Subtotal,
			Discount:   l.Discount,
		})
	}
	return o
}

func (uc *CartUseCase) saveOrder(ctx context.Context, o entity.Order) error {
	var orders []entity.Order
	if _, err := repository.LoadJSON(ctx, uc.kv, repository.KeyOrders, &orders); err != nil {
		return err
	}
	return repository.SaveJSON(ctx, uc.kv, repository.KeyOrders, append(orders, o))
}

// Orders órdenes registradas; userID vacío devuelve todas.
func (uc *CartUseCase) Orders(ctx context.Context, userID string) ([]entity.Order, error) {
	var orders []entity.Order
	if _, err := repository.LoadJSON(ctx, uc.kv, repository.KeyOrders, &orders); err != nil {
		return nil, err
	}
	if userID != "" {
		orders = slices.DeleteFunc(orders, func(o entity.Order) bool { return o.UserID != userID })
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

// Receipt boleta PDF de una orden del usuario (userID vacío: cualquier orden).
func (uc *CartUseCase) Receipt(ctx context.Context, orderID, userID string) ([]byte, error) {
	if uc.cfg.Receipts == nil {
		return nil, fmt.Errorf("boleta: generador no configurado")
	}
	orders, err := uc.Orders(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(orders, func(o entity.Order) bool { return o.ID == orderID })
	if i < 0 {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	return uc.cfg.Receipts.GenerateReceipt(ctx, orders[i])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
