package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Addr               string
	Environment        string
	DataBackend        string
	DatabaseURL        string
	SQLitePath         string
	RunMigrations      bool
	JWTSecret          string
	TokenTTL           time.Duration
	AuthEnabled        bool
	AdminEmail         string
	AdminPassword      string
	AdminTOTPSecret    string
	DataEncryptionKey  string
	TaxTablesPath      string
	RatesConfigPath    string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
}

// Load reads the environment, after merging a local .env file when present.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		DataBackend:        strings.ToLower(getEnv("DATA_BACKEND", BackendSQLite)),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SQLitePath:         getEnv("SQLITE_DB_PATH", "folha.db"),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 12*time.Hour),
		AuthEnabled:        getEnvBool("AUTH_ENABLED", true),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@folha.local"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		AdminTOTPSecret:    getEnv("ADMIN_TOTP_SECRET", ""),
		DataEncryptionKey:  getEnv("DATA_ENCRYPTION_KEY", ""),
		TaxTablesPath:      getEnv("TAX_TABLES_PATH", ""),
		RatesConfigPath:    getEnv("RATES_CONFIG_PATH", "config.json"),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.DataBackend {
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_BACKEND=postgres")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_DB_PATH is required when DATA_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("DATA_BACKEND must be %q or %q", BackendPostgres, BackendSQLite)
	}
	if c.AuthEnabled {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.AdminPassword) == "" {
			return fmt.Errorf("ADMIN_PASSWORD is required when AUTH_ENABLED is true")
		}
	}
	if c.Environment == "production" {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}
