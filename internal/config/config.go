package config

import (
	"github.com/caarlos0/env/v10"
)

// Config holds the application configuration
type Config struct {
	Port          int    `env:"CREDIT_RISK_PORT" envDefault:"8080"`
	ArtifactsPath string `env:"CREDIT_RISK_ARTIFACTS"`
	Headless      bool   `env:"CREDIT_RISK_HEADLESS" envDefault:"false"`
	LogLevel      string `env:"CREDIT_RISK_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"CREDIT_RISK_LOG_FORMAT" envDefault:"console"`
	Version       string `env:"-"`
}

// FromEnv returns the configuration described by environment variables.
// Command-line flags are applied on top by the caller.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
