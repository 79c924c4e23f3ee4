package cli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration. Flags override the environment.
type Config struct {
	ServerURL string        `env:"SLOTCTL_SERVER"  envDefault:"http://localhost:8080"`
	Output    string        `env:"SLOTCTL_OUTPUT"  envDefault:"text"`
	Timeout   time.Duration `env:"SLOTCTL_TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads the CLI configuration from the environment
func LoadConfig() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &c, nil
}
