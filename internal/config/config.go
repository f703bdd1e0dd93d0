package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds client settings read from the environment. A .env file in
// the working directory is loaded first when present.
type Config struct {
	// Backend endpoint; the bearer token is acquired out of band
	APIBaseURL string `env:"RAGCHAT_API_URL" envDefault:"http://localhost:8000"`
	APIToken   string `env:"RAGCHAT_API_TOKEN"`

	// Session storage; empty means the per-user default location
	DatabasePath string `env:"RAGCHAT_DB_PATH"`

	// Upper bound for a single conversational turn
	TurnTimeout time.Duration `env:"RAGCHAT_TURN_TIMEOUT" envDefault:"2m"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
