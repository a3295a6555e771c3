package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct pointer using
// `env` tags for the variable names and `envDefault` for fallbacks.
//
// Example:
//
//	type Config struct {
//	    HTTPPort int      `env:"HTTP_PORT" envDefault:"8080"`
//	    Brokers  []string `env:"KAFKA_BROKERS" envSeparator:","`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
