package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AggregatorConfig struct {
	BaseURL string
	AppID   string
	AppKey  string
	Country string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	JWTIssuer   string

	Aggregator        AggregatorConfig
	SessionBaseURL    string
	SessionProvider   string
	SessionCookieName string
	SourceTimeout     time.Duration

	SMTP            SMTPConfig
	AlertCronSpec   string
	AlertWorkers    int
	AlertMinScore   float64
	DefaultLocation string
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:   getEnv("JWT_ISSUER", "resumatch"),
		Aggregator: AggregatorConfig{
			BaseURL: getEnv("AGGREGATOR_BASE_URL", "https://api.adzuna.com/v1/api/jobs"),
			AppID:   os.Getenv("AGGREGATOR_APP_ID"),
			AppKey:  os.Getenv("AGGREGATOR_APP_KEY"),
			Country: getEnv("AGGREGATOR_COUNTRY", "us"),
		},
		SessionBaseURL:    getEnv("SESSION_BASE_URL", "https://www.linkedin.com"),
		SessionProvider:   getEnv("SESSION_PROVIDER", "linkedin"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "li_at"),
		SourceTimeout:     time.Duration(getEnvInt("SOURCE_TIMEOUT_SECONDS", 30)) * time.Second,
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", "alerts@resumatch.io"),
		},
		AlertCronSpec:   getEnv("ALERT_CRON_SPEC", "0 9 * * MON"),
		AlertWorkers:    getEnvInt("ALERT_WORKERS", 4),
		AlertMinScore:   getEnvFloat("ALERT_MIN_SCORE", 20),
		DefaultLocation: getEnv("DEFAULT_LOCATION", ""),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
