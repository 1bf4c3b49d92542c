package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers selected from the DATABASE_URL scheme.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	DatabaseURL string
	StoreDriver string
	SQLitePath  string

	// Firebase
	FirebaseProjectID string

	// Remote job API (optional, replaces the local jobs table as job store)
	JobAPIURL string
	JobAPIKey string

	// Rate Limiting
	RateLimitRPS int

	// Search & enrichment
	PageSize    int
	PageWindow  int
	FanOutLimit int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// .env is optional; real env vars take precedence
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		JobAPIURL:         strings.TrimRight(getEnv("JOB_API_URL", ""), "/"),
		JobAPIKey:         getEnv("JOB_API_KEY", ""),
		RateLimitRPS:      getEnvInt("RATE_LIMIT_RPS", 10),
		PageSize:          getEnvInt("PAGE_SIZE", 6),
		PageWindow:        getEnvInt("PAGE_WINDOW", 5),
		FanOutLimit:       getEnvInt("FANOUT_LIMIT", 8),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
		}),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	driver, path, err := parseDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	cfg.StoreDriver = driver
	cfg.SQLitePath = path

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.PageWindow <= 0 {
		cfg.PageWindow = 5
	}
	if cfg.FanOutLimit <= 0 {
		cfg.FanOutLimit = 8
	}

	return cfg, nil
}

// parseDatabaseURL picks the store driver from the URL scheme.
// sqlite://:memory: and sqlite:///var/data/portal.db are both accepted.
func parseDatabaseURL(raw string) (driver, sqlitePath string, err error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, "", nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("DATABASE_URL %q has no sqlite path", raw)
		}
		return DriverSQLite, path, nil
	}
	return "", "", fmt.Errorf("unsupported DATABASE_URL scheme in %q", raw)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
