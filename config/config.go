package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds the server configuration, read from the environment. Values
// can still be overridden by command-line flags in main.
type Config struct {
	Port        string `env:"REGISTRY_PORT" envDefault:"8080"`
	DataDir     string `env:"REGISTRY_DATA_DIR" envDefault:"./registry_data"`
	MaxWorkers  int    `env:"REGISTRY_MAX_WORKERS" envDefault:"4"`
	WatchValues bool   `env:"REGISTRY_WATCH_VALUES" envDefault:"false"`
}

// Load reads the server configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}
