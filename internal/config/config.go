package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	// CORSAllowedHosts lists the browser origins (host[:port]) allowed to
	// call the API.
	CORSAllowedHosts []string

	DB      DatabaseConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Mail    MailConfig
	Payment PaymentConfig
	Worker  WorkerConfig
	Catalog CatalogConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig controls magic-link login.
type AuthConfig struct {
	MagicLinkBaseURL string
	LoginCodeTTL     time.Duration
}

// MailConfig contains SMTP settings. An empty Host means mails are only logged.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// PaymentConfig contains checkout and webhook settings.
type PaymentConfig struct {
	CheckoutBaseURL string
	WebhookSecret   string
	Currency        string
	TTL             time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	PaymentExpiryInterval time.Duration
}

// CatalogConfig controls the product catalog cache.
type CatalogConfig struct {
	CacheTTL time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000"))

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.Auth = AuthConfig{
		MagicLinkBaseURL: getEnv("MAGIC_LINK_BASE_URL", "http://localhost:3000/auth"),
	}

	cfg.Mail = MailConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getEnvInt("SMTP_PORT", 587),
		User:     getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("MAIL_FROM", "portal@localhost"),
	}

	cfg.Payment = PaymentConfig{
		CheckoutBaseURL: getEnv("CHECKOUT_BASE_URL", "http://localhost:3000/checkout"),
		WebhookSecret:   getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		Currency:        getEnv("PAYMENT_CURRENCY", "USD"),
	}

	// Durations
	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "168h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Auth.LoginCodeTTL, err = parseDurationEnv("LOGIN_CODE_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_CODE_TTL: %w", err)
	}
	if cfg.Payment.TTL, err = parseDurationEnv("PAYMENT_TTL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_TTL: %w", err)
	}
	if cfg.Worker.PaymentExpiryInterval, err = parseDurationEnv("PAYMENT_EXPIRY_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_EXPIRY_INTERVAL: %w", err)
	}
	if cfg.Catalog.CacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
