package config

import (
	"log/slog"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "JMA_BASE_URL", "HTTP_TIMEOUT", "FETCH_DELAY", "FETCH_MAX_RETRIES",
		"CACHE_DIR", "ARCHIVE_DIR", "OUT_DIR", "KEEP_LOOSE_CACHE", "SQLITE_PATH", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, "dev")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, slog.LevelInfo)
	}
	if cfg.FetchDelay != 2500*time.Millisecond {
		t.Errorf("FetchDelay = %v, want 2.5s", cfg.FetchDelay)
	}
	if cfg.FetchMaxRetries != 0 {
		t.Errorf("FetchMaxRetries = %d, want 0", cfg.FetchMaxRetries)
	}
	if cfg.CacheDir != "cache" || cfg.ArchiveDir != "tar_gz" || cfg.OutDir != "out" {
		t.Errorf("dirs = %q %q %q", cfg.CacheDir, cfg.ArchiveDir, cfg.OutDir)
	}
	if cfg.KeepLooseCache {
		t.Error("KeepLooseCache should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FETCH_DELAY", "0s")
	t.Setenv("KEEP_LOOSE_CACHE", "true")
	t.Setenv("SQLITE_PATH", "out/weather.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.AppEnv != "prod" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("got env %q level %v", cfg.AppEnv, cfg.LogLevel)
	}
	if cfg.FetchDelay != 0 || !cfg.KeepLooseCache || cfg.SQLitePath != "out/weather.db" {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"app env", "APP_ENV", "staging"},
		{"log level", "LOG_LEVEL", "verbose"},
		{"delay", "FETCH_DELAY", "soon"},
		{"negative delay", "FETCH_DELAY", "-1s"},
		{"timeout", "HTTP_TIMEOUT", "0s"},
		{"base url", "JMA_BASE_URL", "not a url"},
		{"port", "PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}
