package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
)

var (
	// ErrMissingStoreConfig is returned when the hosted store URL or key is not set.
	ErrMissingStoreConfig = errors.New("SUPABASE_URL and SUPABASE_KEY must be set")
	// ErrMissingDSN is returned when the postgres backend has no connection string.
	ErrMissingDSN = errors.New("DB_DSN must be set for the postgres backend")
	// ErrUnknownBackend is returned for BACKEND values other than supabase or postgres.
	ErrUnknownBackend = errors.New("BACKEND must be supabase or postgres")
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr          string
	LogLevel          string
	Backend           string
	StoreURL          string
	StoreKey          string
	DBConnString      string
	ProductsTable     string
	RedisURL          string
	SessionTTL        time.Duration
	ResetRedirectURL  string
	ColumnsFile       string
	CORSOrigins       []string
	ShutdownTimeout   time.Duration
	SeedAdminEmail    string
	SeedAdminPassword string
}

// FromEnv loads .env files when present and builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	// Variables already set in the environment win over the file.
	_ = godotenv.Load()

	return Config{
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		Backend:           strings.ToLower(envOrDefault("BACKEND", BackendSupabase)),
		StoreURL:          strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		StoreKey:          os.Getenv("SUPABASE_KEY"),
		DBConnString:      os.Getenv("DB_DSN"),
		ProductsTable:     envOrDefault("PRODUCTS_TABLE", "products"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SessionTTL:        envDuration("SESSION_TTL_SECONDS", 24*time.Hour),
		ResetRedirectURL:  envOrDefault("RESET_REDIRECT_URL", "http://localhost:8080/reset-password"),
		ColumnsFile:       os.Getenv("COLUMNS_FILE"),
		CORSOrigins:       envList("CORS_ORIGINS"),
		ShutdownTimeout:   envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: envOrDefault("SEED_ADMIN_PASSWORD", "changeme"),
	}
}

// Validate reports configuration that makes startup impossible.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSupabase:
		if c.StoreURL == "" || c.StoreKey == "" {
			return ErrMissingStoreConfig
		}
	case BackendPostgres:
		if c.DBConnString == "" {
			return ErrMissingDSN
		}
	default:
		return ErrUnknownBackend
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
