package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	IZIPAY_API_URL       string
	IZIPAY_MERCHANT_CODE string
	IZIPAY_PUBLIC_KEY    string
	ORDER_CURRENCY       string

	REDIS_ADDR   string
	RABBITMQ_URL string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	GOOGLE_CLIENT_ID = mustEnv("GOOGLE_CLIENT_ID")
	GOOGLE_CLIENT_SECRET = mustEnv("GOOGLE_CLIENT_SECRET")
	GOOGLE_REDIRECT_URL = mustEnv("GOOGLE_REDIRECT_URL")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	IZIPAY_API_URL = mustEnv("IZIPAY_API_URL")
	IZIPAY_MERCHANT_CODE = mustEnv("IZIPAY_MERCHANT_CODE")
	IZIPAY_PUBLIC_KEY = mustEnv("IZIPAY_PUBLIC_KEY")
	ORDER_CURRENCY = getEnv("ORDER_CURRENCY", "PEN")

	// Optional: cross-instance attempt locking and reconciliation queue.
	REDIS_ADDR = getEnv("REDIS_ADDR", "")
	RABBITMQ_URL = getEnv("RABBITMQ_URL", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
