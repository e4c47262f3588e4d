package config

import (
	"os"
	"time"

	"auvora-crm/internal/infra/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string
	APP_ENV    string
	APP_URL    string
	LOG_LEVEL  string

	CORS_ORIGIN    string
	METRICS_PREFIX string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRODUCT_ID     string

	SENDGRID_API_KEY string
	MAIL_FROM        string
	MAIL_FROM_NAME   string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	DEMO_RESET_CRON string
	JOBS_CRON       string
	ASK_CACHE_TTL   time.Duration
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.L().Info("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	APP_ENV = getEnv("APP_ENV", "development")
	APP_URL = getEnv("APP_URL", "http://localhost:3000")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)
	METRICS_PREFIX = getEnv("METRICS_PREFIX", "auvora")

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")
	STRIPE_PRODUCT_ID = getEnv("STRIPE_PRODUCT_ID", "")

	SENDGRID_API_KEY = getEnv("SENDGRID_API_KEY", "")
	MAIL_FROM = getEnv("MAIL_FROM", "hello@auvora.app")
	MAIL_FROM_NAME = getEnv("MAIL_FROM_NAME", "Auvora")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	DEMO_RESET_CRON = getEnv("DEMO_RESET_CRON", "0 3 * * *")
	JOBS_CRON = getEnv("JOBS_CRON", "@every 5m")
	ASK_CACHE_TTL = getDuration("ASK_CACHE_TTL", time.Minute)
}

// GoogleEnabled reports whether Google sign-in is configured.
func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.L().Fatal("Missing required environment variable", zap.String("key", key))
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.L().Warn("Invalid duration, using default", zap.String("key", key), zap.String("value", v))
		return fallback
	}
	return d
}
