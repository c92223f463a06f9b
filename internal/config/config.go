package config

import (
	"os"
	"time"
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	SMTPHost    string
	SMTPPort    string
	SMTPFrom    string
	AdminEmail  string
	MailTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Addr:        getEnv("ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		SMTPHost:    getEnv("SMTP_HOST", "localhost"),
		SMTPPort:    getEnv("SMTP_PORT", "1025"),
		SMTPFrom:    getEnv("SMTP_FROM", "ventas@odontools.example"),
		AdminEmail:  getEnv("ADMIN_EMAIL", "admin@odontools.example"),
		MailTimeout: 10 * time.Second,
	}

	if raw := os.Getenv("MAIL_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.MailTimeout = d
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
