package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the server's runtime settings.
type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	TickInterval time.Duration
	Debug        bool
	Production   bool
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Port:         "8080",
		DatabasePath: "trading.db",
		JWTSecret:    "dev-secret-key",
		TickInterval: 5 * time.Second,
		Debug:        false,
		Production:   false,
	}
}

// Load reads configuration from a .env file (if present) and environment
// variables. Priority: environment > .env file > defaults.
func Load() Config {
	cfg := Default()

	_ = godotenv.Load()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TICK_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.TickInterval = time.Duration(secs) * time.Second
		}
	}
	cfg.Debug = os.Getenv("DEBUG") == "true"
	cfg.Production = os.Getenv("ENV") == "production"

	return cfg
}
