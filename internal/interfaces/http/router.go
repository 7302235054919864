package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/admin"
	"github.com/PyKydo/LevelUpGamer/internal/application/auth"
	"github.com/PyKydo/LevelUpGamer/internal/application/cart"
	"github.com/PyKydo/LevelUpGamer/internal/application/catalog"
	"github.com/PyKydo/LevelUpGamer/internal/application/contact"
	"github.com/PyKydo/LevelUpGamer/internal/application/errorhandler"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain/entity"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/notify"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store     *state.Store
	CatalogUC *catalog.CatalogUseCase
	CartUC    *cart.CartUseCase
	AuthUC    *auth.AuthUseCase
	ContactUC *contact.ContactUseCase
	AdminUC   *admin.AdminUseCase
	Errors    *errorhandler.Handler
	Feed      *notify.Feed
	Validator *validation.Validator
	Limits    validation.Limits
	DataDir   string // products.json y users.json; vacío no publica /data
	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	errs := NewErrorWriter(deps.Errors, deps.Logger)

	// Fuentes de datos estáticas que consume el ApiService
	if deps.DataDir != "" {
		app.Static("/data", deps.DataDir)
	}

	api := app.Group("/api")

	// Catálogo (público)
	productHandler := NewProductHandler(deps.CatalogUC, errs)
	api.Get("/products", productHandler.List)
	api.Get("/products/stats", productHandler.Stats)
	api.Get("/products/:code", productHandler.GetByCode)
	api.Get("/categories", productHandler.Categories)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, errs)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authHandler.Me)

	// Carrito de la sesión
	cartGroup := api.Group("/cart")
	cartHandler := NewCartHandler(deps.CartUC, deps.AuthUC, errs)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.Add)
	cartGroup.Post("/items/:id/increase", cartHandler.Increase)
	cartGroup.Post("/items/:id/decrease", cartHandler.Decrease)
	cartGroup.Delete("/items/:id", cartHandler.Remove)
	cartGroup.Post("/checkout", cartHandler.Checkout)
	cartGroup.Get("/orders", cartHandler.Orders)
	cartGroup.Get("/orders/:id/receipt", cartHandler.Receipt)

	contactHandler := NewContactHandler(deps.ContactUC, errs)
	api.Post("/contact", contactHandler.Send)

	storeHandler := NewStoreHandler(deps.Store, deps.Validator, deps.Limits, deps.Feed)
	api.Post("/validate/:form", storeHandler.Validate)
	api.Get("/state", storeHandler.State)
	api.Get("/state/history", storeHandler.History)
	api.Get("/state/stats", storeHandler.Stats)
	api.Post("/state/undo", storeHandler.Undo)
	api.Get("/notifications", storeHandler.Notifications)

	// Back-office (Bearer Token con rol Administrador)
	adminGroup := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdministrador))
	adminHandler := NewAdminHandler(deps.AdminUC, errs)
	adminGroup.Get("/products", adminHandler.ListProducts)
	adminGroup.Post("/products", adminHandler.CreateProduct)
	adminGroup.Get("/products/:code", adminHandler.GetProduct)
	adminGroup.Put("/products/:code", adminHandler.UpdateProduct)
	adminGroup.Patch("/products/:code/stock", adminHandler.UpdateStock)
	adminGroup.Patch("/products/:code/price", adminHandler.UpdatePrice)
	adminGroup.Delete("/products/:code", adminHandler.DeleteProduct)

	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Post("/users", adminHandler.CreateUser)
	adminGroup.Get("/users/:id", adminHandler.GetUser)
	adminGroup.Put("/users/:id", adminHandler.UpdateUser)
	adminGroup.Delete("/users/:id", adminHandler.DeleteUser)

	adminGroup.Get("/export/:kind", adminHandler.Export)
	adminGroup.Post("/import/:kind", adminHandler.Import)

	dashboardHandler := NewDashboardHandler(deps.AdminUC, deps.Errors, errs)
	adminGroup.Get("/dashboard", dashboardHandler.Get)
	adminGroup.Get("/errors", dashboardHandler.Errors)
	adminGroup.Delete("/errors", dashboardHandler.ClearErrors)

	adminGroup.Get("/messages", contactHandler.List)
	adminGroup.Patch("/messages/:id/read", contactHandler.MarkRead)
}
