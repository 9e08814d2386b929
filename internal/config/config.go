package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DatabaseURL string

	// Supabase storage / realtime
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseStorageBucket  string

	// Secrets
	SessionSecret  string
	AdminJWTSecret string

	// Confirmation session lifetime
	SessionTTL time.Duration

	// Server
	Port        string
	Environment string
	BaseURL     string

	// Site branding shown by the admin surface. Explicit configuration,
	// not process-wide mutable state.
	Site SiteConfig
}

type SiteConfig struct {
	Header     string `json:"header"`
	Title      string `json:"title"`
	IndexTitle string `json:"index_title"`
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "reference-images"),

		SessionSecret:  getEnv("SESSION_SECRET", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		Site: SiteConfig{
			Header:     getEnv("SITE_HEADER", "Administración de Tienda Personalizados"),
			Title:      getEnv("SITE_TITLE", "Tienda Personalizados"),
			IndexTitle: getEnv("SITE_INDEX_TITLE", "Panel de Control"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.AdminJWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	return nil
}

// Production reports whether the server should run in release mode.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are read as minutes.
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Minute
	}
	return defaultValue
}
