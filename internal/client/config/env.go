package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// dotenvFile is read, if present, before the environment is consulted.
// Variables already set in the process win over the file.
var dotenvFile = ".env"

// aliases are names the web frontend used for the same settings.
type aliases struct {
	PublicAPIURL string `env:"NEXT_PUBLIC_API_URL"`
}

// parseEnv overlays cfg with environment variables. Unset variables leave
// the current value alone.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", dotenvFile, err)
	}

	var a aliases
	if err := env.Load(&a, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	if a.PublicAPIURL != "" {
		cfg.APIBaseURL = a.PublicAPIURL
	}

	if err := env.Load(cfg, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}
