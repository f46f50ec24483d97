package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/jma-weather-archive/internal/api/http"
	"github.com/i474232898/jma-weather-archive/internal/config"
	"github.com/i474232898/jma-weather-archive/internal/export"
	"github.com/i474232898/jma-weather-archive/internal/jma"
)

// runServe exposes the last exported dataset read-only until ctx is done.
func runServe(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, export.Dataset{Dir: cfg.OutDir}, jma.SourceURL(cfg.BaseURL))

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port, "dataset", cfg.OutDir)
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
