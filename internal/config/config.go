package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const minJWTSecretBytes = 32

// Config holds everything the process reads from the environment.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxIdleMinutes int
	DBConnMaxLifeMinutes int

	JWTSecret string

	// SendGridAPIKey empty means email sending is disabled.
	SendGridAPIKey string
	MailFrom       string
}

// Load reads configuration from environment variables, applying defaults
// for everything except JWT_SECRET, which is required.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),

		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "postgres"),
		DBPassword: getEnvOrDefault("DB_PASSWORD", "password"),
		DBName:     getEnvOrDefault("DB_NAME", "taskman"),
		DBSSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),

		DBMaxOpenConns:       getIntEnvOrDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       getIntEnvOrDefault("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxIdleMinutes: getIntEnvOrDefault("DB_CONN_MAX_IDLE_MINUTES", 5),
		DBConnMaxLifeMinutes: getIntEnvOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30),

		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),

		SendGridAPIKey: strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		MailFrom:       getEnvOrDefault("MAIL_FROM", "no-reply@taskman.local"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretBytes {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretBytes)
	}

	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}
