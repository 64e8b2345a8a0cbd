package config

import (
	"log"
	"os"
)

const (
	defaultDBPath = "./dev.db"
	defaultPort   = "8080"
	envDev        = "dev"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath              string
	Port                string
	Env                 string
	PricingDefaultsFile string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		DBPath:              os.Getenv("DB_PATH"),
		Port:                os.Getenv("PORT"),
		Env:                 os.Getenv("APP_ENV"),
		PricingDefaultsFile: os.Getenv("PRICING_DEFAULTS_FILE"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = envDev
	}

	if cfg.PricingDefaultsFile == "" {
		log.Print("warning: PRICING_DEFAULTS_FILE is not set, using built-in pricing defaults")
	}

	return cfg
}

// IsDev reports whether the server runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == envDev
}
