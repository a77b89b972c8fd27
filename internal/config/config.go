package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Storage
	StoreBackend string // "postgres" (default) or "memory"
	DatabaseURL  string

	// Rate limiting
	RedisURL string // optional: Redis-backed limiter storage

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Recording URL probes
	EnableURLProbes bool
	ProbeInterval   time.Duration
	ProbeMaxAge     time.Duration
	ProbeBatchLimit int
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first if
// present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:          getEnv("ENV", "development"),
		ServerAddr:   getEnv("SERVER_ADDR", ":3000"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		StoreBackend: getEnv("STORE_BACKEND", "postgres"),
		DatabaseURL:  getEnv("DATABASE_URL", "postgres://localhost:5432/recshare?sslmode=disable"),
		RedisURL:     getEnv("REDIS_URL", ""),
		TLSEnabled:   getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:    getEnv("TLS_CA_FILE", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", ""),

		EnableURLProbes: getEnv("ENABLE_URL_PROBES", "") != "",
		ProbeInterval:   getDuration("PROBE_INTERVAL", 15*time.Minute),
		ProbeMaxAge:     getDuration("PROBE_MAX_AGE", 24*time.Hour),
		ProbeBatchLimit: getInt("PROBE_BATCH_LIMIT", 50),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// UseMemoryStore returns true if the in-memory store backend is selected.
func (c *Config) UseMemoryStore() bool {
	return c.StoreBackend == "memory"
}
