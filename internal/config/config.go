package config

import (
	"log"
	"os"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL        string
	RedisURL           string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	SessionSecret      string
	EncryptionKey      string // base64, 32 bytes decoded (AES-256)
	CronSecret         string // shared secret for the daily-reset endpoint
	HuggingFaceToken   string
	NutritionixAppID   string
	NutritionixAppKey  string
	RapidAPIKey        string
	ResetSchedule      string // cron spec for the nightly daily reset
	ResetTimezone      string
	LogLevel           string
	LogFormat          string
	Env                string
	Port               string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		EncryptionKey:      os.Getenv("ENCRYPTION_KEY"),
		CronSecret:         os.Getenv("CRON_SECRET"),
		HuggingFaceToken:   os.Getenv("HF_TOKEN"),
		NutritionixAppID:   os.Getenv("NUTRITIONIX_APP_ID"),
		NutritionixAppKey:  os.Getenv("NUTRITIONIX_APP_KEY"),
		RapidAPIKey:        os.Getenv("RAPIDAPI_KEY"),
		ResetSchedule:      getEnvWithDefault("RESET_SCHEDULE", "0 2 * * *"),
		ResetTimezone:      getEnvWithDefault("RESET_TIMEZONE", "UTC"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvWithDefault("LOG_FORMAT", "text"),
		Env:                getEnvWithDefault("ENV", "development"),
		Port:               getEnvWithDefault("PORT", "8080"),
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	if cfg.CronSecret == "" {
		log.Println("WARNING: CRON_SECRET not set. The daily-reset endpoint will reject all requests.")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
