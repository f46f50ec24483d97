package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type AppConfig struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level

	// BaseURL is the root of the remote historical data search.
	BaseURL     string        `validate:"required,url"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// FetchDelay is the pause after every network fetch.
	FetchDelay      time.Duration `validate:"gte=0"`
	FetchMaxRetries int           `validate:"gte=0"` // 0 = fail on the first transport error

	CacheDir   string `validate:"required"`
	ArchiveDir string `validate:"required"`
	OutDir     string `validate:"required"`

	// KeepLooseCache keeps loose cache files after they have been archived.
	KeepLooseCache bool

	// SQLitePath enables the SQLite export when set.
	SQLitePath string

	Port string `validate:"required,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = strings.TrimSpace(getenvDefault("APP_ENV", "dev"))
	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.BaseURL = getenvDefault("JMA_BASE_URL", "https://www.data.jma.go.jp/stats/etrn")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.FetchDelay, err = getenvDuration("FETCH_DELAY", "2.5s"); err != nil {
		return nil, err
	}
	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", 0)

	cfg.CacheDir = getenvDefault("CACHE_DIR", "cache")
	cfg.ArchiveDir = getenvDefault("ARCHIVE_DIR", "tar_gz")
	cfg.OutDir = getenvDefault("OUT_DIR", "out")
	cfg.KeepLooseCache = getenvBool("KEEP_LOOSE_CACHE", false)
	cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	s := getenvDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
