package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// app config, loaded from environment variables
type Config struct {
	Port      string
	JWTSecret string

	Provider string // AI provider name

	PostgresHost     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresPort     string
	PostgresSSLMode  string

	RedisAddr string

	ExecutionAPIURL string
	ScraperURL      string

	PersistInterval time.Duration
	StateTTL        time.Duration
	CleanupSchedule string
	AllowedOrigins  []string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", "dev"),

		Provider: getEnvOrDefault("AI_PROVIDER", "gemini"),

		PostgresHost:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresUser:     getEnvOrDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", "postgres"),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),

		RedisAddr: getEnvOrDefault("REDIS_ADDR", "localhost:6379"),

		ExecutionAPIURL: getEnvOrDefault("EXECUTION_API_URL", "http://localhost:2000"),
		ScraperURL:      getEnvOrDefault("SCRAPER_URL", "http://localhost:8001"),

		PersistInterval: time.Duration(getEnvInt("STATE_PERSIST_INTERVAL_SECONDS", 30)) * time.Second,
		StateTTL:        time.Duration(getEnvInt("STATE_TTL_MINUTES", 180)) * time.Minute,
		CleanupSchedule: getEnvOrDefault("STATE_CLEANUP_SCHEDULE", "*/15 * * * *"),
		AllowedOrigins:  []string{getEnvOrDefault("FRONTEND_ORIGIN", "http://localhost:5173")},
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.PersistInterval <= 0 {
		return errors.New("STATE_PERSIST_INTERVAL_SECONDS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
