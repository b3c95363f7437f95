// Package config reads command line defaults from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-backed defaults for the schemafaker command.
// Flags override every field.
type Config struct {
	Seed        int64         `env:"SCHEMAFAKER_SEED"`
	Count       int           `env:"SCHEMAFAKER_COUNT"        envDefault:"1"`
	Format      string        `env:"SCHEMAFAKER_FORMAT"       envDefault:"json"`
	Missing     string        `env:"SCHEMAFAKER_MISSING"      envDefault:"error"`
	LogLevel    string        `env:"SCHEMAFAKER_LOG_LEVEL"    envDefault:"warn"`
	LogFormat   string        `env:"SCHEMAFAKER_LOG_FORMAT"   envDefault:"text"`
	AllowHTTP   bool          `env:"SCHEMAFAKER_ALLOW_HTTP"`
	HTTPTimeout time.Duration `env:"SCHEMAFAKER_HTTP_TIMEOUT" envDefault:"10s"`
	MaxDepth    int           `env:"SCHEMAFAKER_MAX_DEPTH"    envDefault:"32"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
