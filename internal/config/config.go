package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	BattlePath   string `env:"QIDUEL_CONFIG" envDefault:"config/battle.yaml"`
	SaveDir      string `env:"QIDUEL_SAVE_DIR" envDefault:".saves"`
	LogLevel     string `env:"QIDUEL_LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"QIDUEL_LOG_FILE" envDefault:"qi-duel.log"`
	// Variant overrides opponent.variant from the battle file when set.
	Variant string `env:"QIDUEL_VARIANT"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Battle loads the battle file named by BattlePath and applies the variant
// override.
func (c *Config) Battle() (Battle, error) {
	b, err := LoadBattle(c.BattlePath)
	if err != nil {
		return b, err
	}
	if c.Variant != "" {
		b.Opponent.Variant = c.Variant
	}
	return b, b.Validate()
}
