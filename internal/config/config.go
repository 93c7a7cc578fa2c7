package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API APIConfig
}

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("STOREFRONT_API_URL", "https://ecommerce-backend-ccc8.onrender.com"),
			RequestTimeout: getEnvDuration("STOREFRONT_HTTP_TIMEOUT", 15*time.Second),
			MaxRetries:     getEnvInt("STOREFRONT_MAX_RETRIES", 3),
			RetryBaseDelay: getEnvDuration("STOREFRONT_RETRY_BASE_DELAY", 100*time.Millisecond),
		},
	}

	return cfg, nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		fmt.Printf("Warning: invalid duration for %s, using default\n", key)
	}
	return defaultValue
}
