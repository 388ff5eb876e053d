package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Checklist Fácil API
	Checklist ChecklistConfig

	// Mail delivery (SES)
	Mail MailConfig

	// Optional warehouse bulk-load
	Database DatabaseConfig

	// Run behavior
	Timezone      string
	OutputDir     string
	PriceMin      float64
	PriceMax      float64
	WarnOnDropped bool
	CronSchedule  string
	StatusPort    string

	// HTTP client
	HTTPTimeout    time.Duration
	HTTPMaxRetries int

	// Logging
	LogLevel  string
	LogFormat string
}

// ChecklistConfig holds Checklist Fácil API configuration.
type ChecklistConfig struct {
	Token          string
	AnalyticsURL   string
	IntegrationURL string
	ChecklistID    int
}

// MailConfig holds SES mail delivery configuration.
type MailConfig struct {
	Sender     string
	Recipients []string
	Region     string
	AccessKey  string
	SecretKey  string
}

// DatabaseConfig holds the optional PostgreSQL warehouse configuration.
// An empty URL disables the warehouse load entirely.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Checklist: ChecklistConfig{
			Token:          getEnv("CHECKLIST_TOKEN", ""),
			AnalyticsURL:   getEnv("ANALYTICS_BASE_URL", "https://api-analytics.checklistfacil.com.br"),
			IntegrationURL: getEnv("INTEGRATION_BASE_URL", "https://integration.checklistfacil.com.br"),
			ChecklistID:    getEnvAsInt("CHECKLIST_ID", 248447),
		},

		Mail: MailConfig{
			Sender:     getEnv("MAIL_SENDER", ""),
			Recipients: getEnvAsList("MAIL_RECIPIENTS"),
			Region:     getEnv("AWS_REGION", "sa-east-1"),
			AccessKey:  getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},

		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 4),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 1),
		},

		Timezone:      getEnv("TIMEZONE", "America/Sao_Paulo"),
		OutputDir:     getEnv("OUTPUT_DIR", "."),
		PriceMin:      getEnvAsFloat("PRICE_MIN", 2),
		PriceMax:      getEnvAsFloat("PRICE_MAX", 201),
		WarnOnDropped: getEnvAsBool("WARN_ON_DROPPED", true),
		CronSchedule:  getEnv("CRON_SCHEDULE", "0 0 6 * * 1"),
		StatusPort:    getEnv("STATUS_PORT", "8790"),

		HTTPTimeout:    getEnvAsDuration("HTTP_TIMEOUT", "30s"),
		HTTPMaxRetries: getEnvAsInt("HTTP_MAX_RETRIES", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Checklist.Token == "" {
		return fmt.Errorf("CHECKLIST_TOKEN is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.PriceMin >= c.PriceMax {
		return fmt.Errorf("PRICE_MIN (%v) must be below PRICE_MAX (%v)", c.PriceMin, c.PriceMax)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is not a valid IANA zone: %w", c.Timezone, err)
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma-separated variable, trimming whitespace and
// dropping empty entries.
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
