package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration values.
type Config struct {
	Port         string        `env:"APP_PORT" envDefault:"8080"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"180s"`
	AI           AIConfig
	Session      SessionConfig
}

// AIConfig describes the inference provider. The key is never embedded in the binary:
// it comes from the environment or from a mounted secret file.
type AIConfig struct {
	APIKeyValue    string `env:"OPENROUTER_API_KEY"`
	APIKeyFromFile string `env:"OPENROUTER_API_KEY_FILE,file"`
	BaseURL        string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model          string `env:"OPENROUTER_MODEL" envDefault:"qwen/qwen2.5-vl-32b-instruct:free"`
}

// SessionConfig controls cookies and in-memory session retention.
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	SecureCookie bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	IdleTimeout  time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	MaxSessions  int           `env:"MAX_SESSIONS" envDefault:"1000"`
}

// Load reads configuration from environment variables and applies defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		return Config{}, errors.New("APP_PORT cannot be empty")
	}
	if cfg.Session.MaxSessions <= 0 {
		return Config{}, errors.New("MAX_SESSIONS must be positive")
	}

	return cfg, nil
}

// APIKey resolves the credential, preferring the plain variable over the file secret.
func (c AIConfig) APIKey() string {
	if key := strings.TrimSpace(c.APIKeyValue); key != "" {
		return key
	}
	return strings.TrimSpace(c.APIKeyFromFile)
}
