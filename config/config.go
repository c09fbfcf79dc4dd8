package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	RedisAddr     string
	RedisPassword string

	FrontendURL string
	AppBaseURL  string

	// bKash tokenized checkout credentials
	BkashBaseURL   string
	BkashAppKey    string
	BkashAppSecret string
	BkashUsername  string
	BkashPassword  string

	// SSLCommerz store credentials
	SSLCommerzBaseURL  string
	SSLCommerzStoreID  string
	SSLCommerzStorePwd string

	// shurjoPay merchant credentials
	ShurjoPayBaseURL  string
	ShurjoPayUsername string
	ShurjoPayPassword string
	ShurjoPayPrefix   string
}

// AppConfig is the loaded application configuration
var AppConfig *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional in production where vars come from the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:8080"),

		BkashBaseURL:   getEnv("BKASH_BASE_URL", "https://tokenized.sandbox.bka.sh/v1.2.0-beta"),
		BkashAppKey:    os.Getenv("BKASH_APP_KEY"),
		BkashAppSecret: os.Getenv("BKASH_APP_SECRET"),
		BkashUsername:  os.Getenv("BKASH_USERNAME"),
		BkashPassword:  os.Getenv("BKASH_PASSWORD"),

		SSLCommerzBaseURL:  getEnv("SSLCOMMERZ_BASE_URL", "https://sandbox.sslcommerz.com"),
		SSLCommerzStoreID:  os.Getenv("SSLCOMMERZ_STORE_ID"),
		SSLCommerzStorePwd: os.Getenv("SSLCOMMERZ_STORE_PASSWD"),

		ShurjoPayBaseURL:  getEnv("SHURJOPAY_BASE_URL", "https://sandbox.shurjopayment.com"),
		ShurjoPayUsername: os.Getenv("SHURJOPAY_USERNAME"),
		ShurjoPayPassword: os.Getenv("SHURJOPAY_PASSWORD"),
		ShurjoPayPrefix:   getEnv("SHURJOPAY_PREFIX", "GBD"),
	}

	AppConfig = config
	return config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
