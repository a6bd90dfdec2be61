// Package config loads runtime settings from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// GeminiAPIKey may be empty: the game then runs in offline mode
	// with deterministic narration.
	GeminiAPIKey string
	SaveDir      string
	// Seed fixes the RNG when non-zero. Useful for reproducing runs.
	Seed int64
}

// Load reads the configuration from the environment, after loading an
// optional .env file. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		SaveDir:      os.Getenv("YOUXI_SAVE_DIR"),
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = ".saves"
	}

	if raw := os.Getenv("YOUXI_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		cfg.Seed = seed
	}

	return cfg, nil
}
