package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/PyKydo/LevelUpGamer/internal/app"
	httpRouter "github.com/PyKydo/LevelUpGamer/internal/interfaces/http"
	"github.com/PyKydo/LevelUpGamer/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	ctx := context.Background()
	c, err := app.Build(ctx, cfg)
	if err != nil {
		panic("iniciar aplicación: " + err.Error())
	}
	log := c.Log
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	fiberApp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	fiberApp.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.DocsEnabled {
		fiberApp.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "LevelUpGamer API",
		}))
	}

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(fiberApp, c.RouterDeps())

	// las fuentes de datos se sirven desde este mismo proceso
	fiberApp.Hooks().OnListen(func(fiber.ListenData) error {
		go func() {
			warmCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := c.Warmup(warmCtx); err != nil {
				log.Warn().Err(err).Msg("carga inicial del panel")
			}
		}()
		return nil
	})

	go func() {
		if err := fiberApp.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := c.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de recursos")
	}

	log.Info().Msg("aplicación detenida")
}
