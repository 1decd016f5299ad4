package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Environment   string
	LogLevel      string
	HTTPAddr      string
	StoreDriver   string
	DBDSN         string
	SQLitePath    string
	StoreTimeout  time.Duration
	TelegramToken string
	RedisAddr     string
	RedisChannel  string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию только из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:   getenv("ENV", "development"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		StoreDriver:   getenv("STORE_DRIVER", DriverPostgres),
		DBDSN:         os.Getenv("DB_DSN"),
		SQLitePath:    getenv("SQLITE_PATH", "scheduler.db"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisChannel:  getenv("REDIS_CHANNEL", "scheduler:changes"),
	}

	timeout, err := time.ParseDuration(getenv("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("STORE_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.StoreTimeout = timeout

	// Проверяем обязательные поля
	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required for sqlite driver")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
