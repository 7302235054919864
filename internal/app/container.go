package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/admin"
	"github.com/PyKydo/LevelUpGamer/internal/application/auth"
	"github.com/PyKydo/LevelUpGamer/internal/application/cart"
	"github.com/PyKydo/LevelUpGamer/internal/application/catalog"
	"github.com/PyKydo/LevelUpGamer/internal/application/contact"
	"github.com/PyKydo/LevelUpGamer/internal/application/errorhandler"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
	"github.com/PyKydo/LevelUpGamer/internal/domain/repository"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/api"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/notify"
	infrapdf "github.com/PyKydo/LevelUpGamer/internal/infrastructure/pdf"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/storage"
	httpRouter "github.com/PyKydo/LevelUpGamer/internal/interfaces/http"
	"github.com/PyKydo/LevelUpGamer/pkg/config"
	"github.com/PyKydo/LevelUpGamer/pkg/helpers"
	"github.com/PyKydo/LevelUpGamer/pkg/logger"
)

// Container dependencias ya cableadas de la tienda.
type Container struct {
	Config    *config.Config
	Log       *logger.Logger
	KV        storage.Store
	Store     *state.Store
	Feed      *notify.Feed
	Errors    *errorhandler.Handler
	Data      *api.Service
	Validator *validation.Validator
	Limits    validation.Limits
	Policy    pricing.Policy

	Catalog *catalog.CatalogUseCase
	Cart    *cart.CartUseCase
	Auth    *auth.AuthUseCase
	Contact *contact.ContactUseCase
	Admin   *admin.AdminUseCase

	saveMu       sync.Mutex
	autosave     *helpers.Debouncer
	stopAutosave func()
}

// Option modifica la construcción del contenedor.
type Option func(*options)

type options struct {
	logOpts []logger.Option
	kv      storage.Store
}

// WithLoggerOptions opciones extra para el logger (p. ej. salida en tests).
func WithLoggerOptions(opts ...logger.Option) Option {
	return func(o *options) { o.logOpts = append(o.logOpts, opts...) }
}

// WithStorage usa kv en vez de abrir el driver configurado.
func WithStorage(kv storage.Store) Option {
	return func(o *options) { o.kv = kv }
}

// salesStore driver con registro de ventas (postgres).
type salesStore interface {
	repository.SalesRecorder
	admin.SalesTotaler
}

// Build abre el almacenamiento, arma el Store y los casos de uso, y restaura
// el estado guardado (sesión y carrito incluidos).
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	kv := o.kv
	if kv == nil {
		var err error
		if kv, err = storage.Open(ctx, cfg.Storage); err != nil {
			return nil, fmt.Errorf("almacenamiento %s: %w", cfg.Storage.Driver, err)
		}
	}

	sink := logger.NewKVSink(kv, repository.KeyLogs, logger.ParseLevel(cfg.Store.LogSinkLevel), cfg.Store.LogLimit)
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}, append([]logger.Option{logger.WithSink(sink)}, o.logOpts...)...)
	zl := log.Zerolog()

	feed := notify.NewFeed(0, log.Component("notify"))
	errs := errorhandler.New(kv, feed, log.Component("errors"),
		errorhandler.WithLimit(cfg.Store.ErrorLogLimit),
		errorhandler.WithNetworkNoticeWindow(cfg.Store.NetworkNoticeWindow),
	)

	store := state.New(
		state.WithHistoryLimit(cfg.Store.HistoryLimit),
		state.WithMiddleware(state.LoggingMiddleware(log.Component("store")), state.CartQuantityGuard()),
		state.WithLogger(log.Component("store")),
		state.WithReporter(errs),
	)

	limits := LimitsFrom(cfg.Validation)
	validator := validation.New(
		validation.WithEmailDomains(limits.EmailDomains),
		validation.WithPasswordBounds(limits.PasswordMin, limits.PasswordMax),
	)
	policy := pricing.NewPolicy(cfg.Discount.Registered, cfg.Discount.Duoc, cfg.Discount.Cap, cfg.Discount.DuocDomains)

	// el token sale de la sesión, que se crea después del cliente
	var authUC *auth.AuthUseCase
	token := func() string {
		if authUC == nil {
			return ""
		}
		return authUC.Token()
	}
	retry := api.DefaultRetryPolicy()
	retry.MaxRetries = cfg.Data.MaxRetries
	if cfg.Data.RetryBaseDelay > 0 {
		retry.BaseDelay = cfg.Data.RetryBaseDelay
	}
	client := api.NewClient(
		api.WithTimeout(cfg.Data.Timeout),
		api.WithPipeline(api.DefaultPipeline(store, token, log.Component("api"))),
		api.WithRetryPolicy(retry),
		api.WithErrorHandler(errs),
		api.WithLogger(log.Component("api")),
	)
	data := api.NewService(client, api.ServiceConfig{
		ProductsURL: cfg.Data.ProductsURL(),
		UsersURL:    cfg.Data.UsersURL(),
		CacheTTL:    cfg.Data.CacheTTL,
	}, kv, store, log.Component("data"))

	authUC = auth.NewAuthUseCase(store, data, kv, feed, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, auth.WithValidator(validator, limits), auth.WithPolicy(policy), auth.WithLogger(log.Component("auth")))

	cartCfg := cart.Config{
		Policy:       policy,
		PaymentDelay: cfg.Store.PaymentDelay,
		Receipts:     infrapdf.NewReceiptGenerator(cfg.App.Name),
		Validator:    validator,
		Logger:       log.Component("cart"),
	}
	adminCfg := admin.Config{Validator: validator, Limits: limits, Logger: log.Component("admin")}
	if sales, ok := kv.(salesStore); ok {
		cartCfg.Sales = sales
		adminCfg.Sales = sales
	}

	c := &Container{
		Config:    cfg,
		Log:       log,
		KV:        kv,
		Store:     store,
		Feed:      feed,
		Errors:    errs,
		Data:      data,
		Validator: validator,
		Limits:    limits,
		Policy:    policy,
		Catalog:   catalog.NewCatalogUseCase(store, data, policy),
		Cart:      cart.NewCartUseCase(store, data, kv, feed, cartCfg),
		Auth:      authUC,
		Contact:   contact.NewContactUseCase(kv, feed, validator, limits),
		Admin:     admin.NewAdminUseCase(data, kv, feed, adminCfg),
	}

	if _, err := store.Restore(ctx, kv, repository.KeyStoreState); err != nil {
		zl.Warn().Err(err).Msg("restaurar estado")
	}
	if _, err := authUC.Restore(ctx); err != nil {
		zl.Warn().Err(err).Msg("restaurar sesión")
	}
	if err := c.Cart.Load(ctx); err != nil {
		zl.Warn().Err(err).Msg("restaurar carrito")
	}
	if cfg.Store.AutosaveDelay > 0 {
		c.startAutosave(cfg.Store.AutosaveDelay)
	}
	return c, nil
}

// startAutosave guarda el estado completo cuando termina una ráfaga de acciones.
func (c *Container) startAutosave(wait time.Duration) {
	zl := c.Log.Component("autosave")
	c.autosave = helpers.Debounce(func() {
		c.saveMu.Lock()
		defer c.saveMu.Unlock()
		if err := c.Store.Persist(context.Background(), c.KV, repository.KeyStoreState); err != nil {
			zl.Warn().Err(err).Msg("guardar estado")
		}
	}, wait)
	c.stopAutosave = c.Store.Subscribe(func(any, state.Action) error {
		c.autosave.Call()
		return nil
	}, "")
}

// RouterDeps dependencias del router HTTP.
func (c *Container) RouterDeps() httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		Store:     c.Store,
		CatalogUC: c.Catalog,
		CartUC:    c.Cart,
		AuthUC:    c.Auth,
		ContactUC: c.Contact,
		AdminUC:   c.Admin,
		Errors:    c.Errors,
		Feed:      c.Feed,
		Validator: c.Validator,
		Limits:    c.Limits,
		DataDir:   c.Config.HTTP.DataDir,
		JWTSecret: c.Config.JWT.Secret,
		Logger:    c.Log.Component("http"),
	}
}

// Warmup carga las copias de trabajo del panel de administración. Requiere
// que las fuentes de datos estén disponibles.
func (c *Container) Warmup(ctx context.Context) error {
	if err := c.Admin.Seed(ctx); err != nil {
		return fmt.Errorf("sembrar panel: %w", err)
	}
	return nil
}

// Close persiste el estado y libera los recursos.
func (c *Container) Close(ctx context.Context) error {
	if c.stopAutosave != nil {
		c.stopAutosave()
		c.autosave.Stop()
	}
	c.Cart.Close()
	c.Data.Close()
	// espera un guardado en curso
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	var errs []error
	if err := c.Store.Persist(ctx, c.KV, repository.KeyStoreState); err != nil {
		errs = append(errs, fmt.Errorf("persistir estado: %w", err))
	}
	if err := c.KV.Close(); err != nil {
		errs = append(errs, fmt.Errorf("cerrar almacenamiento: %w", err))
	}
	return errors.Join(errs...)
}

// Logger atajo al logger zerolog raíz.
func (c *Container) Logger() zerolog.Logger { return c.Log.Zerolog() }

// LimitsFrom traduce la configuración de validación a los límites de las reglas.
func LimitsFrom(cfg config.ValidationConfig) validation.Limits {
	l := validation.DefaultLimits()
	if len(cfg.EmailDomains) > 0 {
		l.EmailDomains = cfg.EmailDomains
	}
	setPositive(&l.PasswordMin, cfg.PasswordMin)
	setPositive(&l.PasswordMax, cfg.PasswordMax)
	setPositive(&l.MinAge, cfg.MinAge)
	setPositive(&l.NameMax, cfg.NameMax)
	setPositive(&l.LastNameMax, cfg.LastNameMax)
	setPositive(&l.EmailMax, cfg.EmailMax)
	setPositive(&l.AddressMax, cfg.AddressMax)
	setPositive(&l.CommentMax, cfg.CommentMax)
	setPositive(&l.ProductNameMax, cfg.ProductNameMax)
	setPositive(&l.DescriptionMax, cfg.DescriptionMax)
	return l
}

func setPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
