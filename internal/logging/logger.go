package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"github.com/i474232898/jma-weather-archive/internal/config"
)

// New builds the process logger: tinted text in dev, JSON otherwise.
// Every logger carries a fresh run_id.
func New(cfg *config.AppConfig, appName string) *slog.Logger {
	var h slog.Handler
	if cfg.AppEnv == "dev" {
		h = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.Kitchen,
		})
	} else {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		})
	}
	return slog.New(h).With(
		"app", appName,
		"run_id", uuid.NewString(),
	)
}
