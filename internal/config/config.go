package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	BaseURL string

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Enabled reports whether outbound email is configured. When false the
// notifier skips email delivery entirely.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Username != "" && s.Password != "" && s.From != ""
}

// Load reads configuration from the environment, with .env as a convenience
// for local development. JWT_SECRET is the only hard requirement.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        envOr("PORT", "8080"),
		Env:         envOr("ENV", "development"),
		DatabaseURL: envOr("DATABASE_URL", ""),

		JWTSecret:       mustEnv("JWT_SECRET"),
		JWTAccessExpiry: durationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),

		BaseURL: envOr("BASE_URL", "http://localhost:8080"),

		SMTP: SMTPConfig{
			Host:     envOr("SMTP_HOST", ""),
			Port:     envOr("SMTP_PORT", "587"),
			Username: envOr("SMTP_USERNAME", ""),
			Password: envOr("SMTP_PASSWORD", ""),
			From:     envOr("SMTP_FROM", ""),
		},
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic("required environment variable not set: " + key)
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
