/**
 * @description
 * Configuration loader for the Blockcast backend.
 * Responsible for reading environment variables, setting defaults, and
 * performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Fails fast if the database URL is missing.
 */

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Worker WorkerConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development", "staging" or "production"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// AuthConfig holds JWT validation and admin settings
type AuthConfig struct {
	JWKSURL     string // URL to fetch JSON Web Key Set for JWT validation
	AdminSecret string // shared secret guarding resolution endpoints
}

// WorkerConfig holds background job settings
type WorkerConfig struct {
	SweepSpec string // cron spec for the market expiry sweep
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (prod injects env vars directly)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Auth: AuthConfig{
			JWKSURL:     getEnv("AUTH_JWKS_URL", ""),
			AdminSecret: sanitizeCredential(getEnv("ADMIN_SECRET", "")),
		},
		Worker: WorkerConfig{
			SweepSpec: getEnv("WORKER_SWEEP_SPEC", "@every 1m"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.JWKSURL == "" && cfg.Server.Env != "test" {
		fmt.Println("Warning: AUTH_JWKS_URL is missing. Auth middleware will fail.")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}
