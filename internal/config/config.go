// Package config loads server configuration from environment variables.
//
// Instead of scattering os.Getenv calls through main.go, the whole
// configuration is one struct with `env:` tags. caarlos0/env parses the
// tags, applies defaults, and enforces `required` fields in one call.
// godotenv loads a local .env file first so development doesn't need a
// wall of exports — in production the variables come from the real
// environment and the missing .env file is simply ignored.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server process.
type Config struct {
	Port  int    `env:"PORT" envDefault:"8080"`
	Debug bool   `env:"DEBUG" envDefault:"false"`
	Store string `env:"STORE" envDefault:"sqlite"` // "sqlite" or "memory"

	// Path to the SQLite database file. The parent directory is created
	// on startup if it doesn't exist. Ignored when STORE=memory.
	DBPath string `env:"DB_PATH" envDefault:"data/wattwise.db"`

	// JWT_SECRET signs session cookies. At least 16 characters; generate
	// with: openssl rand -hex 32
	JWTSecret string `env:"JWT_SECRET,required"`

	// Optional GitHub OAuth login. Routes are only registered when both
	// client values are set.
	GitHub struct {
		ClientID     string `env:"GITHUB_CLIENT_ID"`
		ClientSecret string `env:"GITHUB_CLIENT_SECRET"`
		CallbackURL  string `env:"GITHUB_CALLBACK_URL"`
	}

	// Optional OpenAI access for AI recommendations. When the key is
	// empty the advisor serves canned fallback tips.
	OpenAI struct {
		APIKey string `env:"OPENAI_API_KEY"`
		Model  string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	}

	// Optional redis leaderboard cache. Empty Addr disables caching.
	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.GitHub.CallbackURL == "" {
		cfg.GitHub.CallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}
