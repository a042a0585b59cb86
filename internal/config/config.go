package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Version     string `envconfig:"VERSION" default:"dev"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	IdentityURL        string `envconfig:"IDENTITY_URL" required:"true"`
	IdentityAnonKey    string `envconfig:"IDENTITY_ANON_KEY" required:"true"`
	IdentityServiceKey string `envconfig:"IDENTITY_SERVICE_KEY" required:"true"`

	LLMAPIURL       string `envconfig:"LLM_API_URL" default:"https://api.openai.com/v1"`
	LLMModel        string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	LLMAPIKey       string `envconfig:"LLM_API_KEY" default:""`
	PublicLLMAPIKey string `envconfig:"PUBLIC_LLM_API_KEY" default:""`
}

// Load reads configuration from environment variables into a Config struct
// and validates it. The process must not start with an incomplete Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces cross-field rules that envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.ResolvedLLMKey() == "" {
		return errors.New("one of LLM_API_KEY or PUBLIC_LLM_API_KEY must be set")
	}
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Environment)
	}
	if !strings.HasPrefix(c.IdentityURL, "http://") && !strings.HasPrefix(c.IdentityURL, "https://") {
		return fmt.Errorf("IDENTITY_URL must be an http(s) URL, got %q", c.IdentityURL)
	}
	return nil
}

// ResolvedLLMKey returns the server-side LLM API key, falling back to the
// client-exposed key when the server key is absent.
func (c *Config) ResolvedLLMKey() string {
	if c.LLMAPIKey != "" {
		return c.LLMAPIKey
	}
	return c.PublicLLMAPIKey
}

// SecureCookies reports whether session cookies must carry the Secure attribute.
func (c *Config) SecureCookies() bool {
	return c.Environment == "production"
}
