package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultPaystackBaseURL = "https://api.paystack.co"

	// Shipping defaults, in naira. Orders above the threshold ship free.
	defaultFreeShippingThreshold = 150000
	defaultFlatShippingFee       = 2500
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	PaystackSecretKey string
	PaystackBaseURL   string
	CallbackURL       string

	JWTSecret string

	FreeShippingThreshold float64
	FlatShippingFee       float64

	MigrationsPath string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  os.Getenv("APP_ENV"),
		AppPort: getEnv("APP_PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", defaultPaystackBaseURL),
		CallbackURL:       os.Getenv("PAYMENT_CALLBACK_URL"),

		JWTSecret: os.Getenv("SECRET_KEY"),

		FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", defaultFreeShippingThreshold),
		FlatShippingFee:       getEnvFloat("FLAT_SHIPPING_FEE", defaultFlatShippingFee),

		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly: DB_HOST is required")
	}
	if cfg.PaystackSecretKey == "" {
		log.Fatal("Environment variables not loaded properly: PAYSTACK_SECRET_KEY is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid value for %s: %q", key, v)
	}
	return f
}
