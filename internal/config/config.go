package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

type Config struct {
	Service  ServiceConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Business BusinessConfig
	Catalog  CatalogConfig
}

type ServiceConfig struct {
	Port               int
	LogLevel           string
	LogFormat          string
	RateLimitPerMinute int
}

type DatabaseConfig struct {
	// Driver is postgres, sqlite or memory.
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

type BusinessConfig struct {
	Timezone string
	Stores   []domain.Store

	// StoreAccessPolicy is a CEL expression; empty uses the built-in rule.
	StoreAccessPolicy string
}

type CatalogConfig struct {
	SheetsAPIKey    string
	SheetsSheetID   string
	SheetsRange     string
	SheetsBaseURL   string
	CacheTTL        time.Duration
	RefreshInterval time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	stores, err := parseStores(getEnv("STORES", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Service: ServiceConfig{
			Port:               getEnvInt("PORT", 8080),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			LogFormat:          getEnv("LOG_FORMAT", "text"),
			RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "checklist_user"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "checklist_db"),
			SQLitePath: getEnv("SQLITE_PATH", "checklist.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", "checklist-sync-engine"),
			TokenTTL:  getEnvDuration("TOKEN_TTL", 12*time.Hour),
		},
		Business: BusinessConfig{
			Timezone:          getEnv("BUSINESS_TIMEZONE", domain.DefaultBusinessTimezone),
			Stores:            stores,
			StoreAccessPolicy: getEnv("STORE_ACCESS_POLICY", ""),
		},
		Catalog: CatalogConfig{
			SheetsAPIKey:    getEnv("SHEETS_API_KEY", ""),
			SheetsSheetID:   getEnv("SHEETS_SHEET_ID", ""),
			SheetsRange:     getEnv("SHEETS_CATALOG_RANGE", ""),
			SheetsBaseURL:   getEnv("SHEETS_BASE_URL", ""),
			CacheTTL:        getEnvDuration("CATALOG_CACHE_TTL", 30*time.Minute),
			RefreshInterval: getEnvDuration("CATALOG_REFRESH_INTERVAL", time.Hour),
		},
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (must be postgres, sqlite or memory)", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.Business.Timezone, err)
	}

	if c.Service.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}

	return nil
}

// parseStores reads "key:Name,key2:Name 2". An empty value selects the
// default store directory.
func parseStores(raw string) ([]domain.Store, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultStores(), nil
	}

	var stores []domain.Store
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, name, _ := strings.Cut(entry, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid STORES entry %q", entry)
		}
		stores = append(stores, domain.Store{Key: key, Name: strings.TrimSpace(name)})
	}
	if len(stores) == 0 {
		return nil, fmt.Errorf("STORES must list at least one store")
	}
	return stores, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
