package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the rankrocket CLI.
type Config struct {
	APIBaseURL     string        `env:"RANKROCKET_API_BASE_URL"`
	RequestTimeout time.Duration `env:"RANKROCKET_REQUEST_TIMEOUT"`
	PollInterval   time.Duration `env:"RANKROCKET_POLL_INTERVAL"`
	StorePath      string        `env:"RANKROCKET_STORE_PATH"`
	CredentialTTL  time.Duration `env:"RANKROCKET_CREDENTIAL_TTL"`
	OAuthEnabled   bool          `env:"RANKROCKET_OAUTH_ENABLED"`
	ServerLogout   bool          `env:"RANKROCKET_SERVER_LOGOUT"`
	CallbackAddr   string        `env:"RANKROCKET_CALLBACK_ADDR"`
	SignInRoute    string        `env:"RANKROCKET_SIGN_IN_ROUTE"`
	LogLevel       string        `env:"RANKROCKET_LOG_LEVEL"`
	LogFormat      string        `env:"RANKROCKET_LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 10 * time.Second
	c.PollInterval = 3 * time.Second
	c.StorePath = "rankrocket.db"
	c.CredentialTTL = 7 * 24 * time.Hour
	c.OAuthEnabled = true
	c.ServerLogout = false
	c.CallbackAddr = "127.0.0.1:3000"
	c.SignInRoute = "/auth"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.APIBaseURL == "":
		return fmt.Errorf("api base url is required")
	case c.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	case c.PollInterval <= 0:
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	case c.CredentialTTL <= 0:
		return fmt.Errorf("credential ttl must be positive, got %s", c.CredentialTTL)
	case c.StorePath == "":
		return fmt.Errorf("store path is required")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// environment, a JSON file (if given) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, jsonConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
