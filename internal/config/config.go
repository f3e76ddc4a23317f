package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, loaded from a .env file (when
// present) and the environment.
type Config struct {
	Environment string
	LogLevel    slog.Level

	// DataPath is the SQLite file backing the record registry.
	DataPath string
	// ExportDir receives generated export files.
	ExportDir string

	// Institute identity printed on hall tickets.
	InstituteName    string
	InstituteTagline string
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("APP_ENV", "development"),
		DataPath:         getEnv("REGISTRY_DATA_PATH", "exam-registry.db"),
		ExportDir:        getEnv("REGISTRY_EXPORT_DIR", "."),
		InstituteName:    getEnv("INSTITUTE_NAME", "Usha Institute"),
		InstituteTagline: getEnv("INSTITUTE_TAGLINE", "Excellence in Education"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
