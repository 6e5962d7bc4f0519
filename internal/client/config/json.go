package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// duration accepts "10s" style strings or integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		*d = duration(time.Duration(v))
	case string:
		p, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*d = duration(p)
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// stay nil and leave the corresponding setting untouched.
type JsonConfig struct {
	APIBaseURL     *string   `json:"api_base_url"`
	RequestTimeout *duration `json:"request_timeout"`
	PollInterval   *duration `json:"poll_interval"`
	StorePath      *string   `json:"store_path"`
	CredentialTTL  *duration `json:"credential_ttl"`
	OAuthEnabled   *bool     `json:"oauth_enabled"`
	ServerLogout   *bool     `json:"server_logout"`
	CallbackAddr   *string   `json:"callback_addr"`
	SignInRoute    *string   `json:"sign_in_route"`
	LogLevel       *string   `json:"log_level"`
	LogFormat      *string   `json:"log_format"`
}

// parseJson overlays cfg with the JSON file at path. An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.PollInterval, jc.PollInterval)
	setIf(&cfg.StorePath, jc.StorePath)
	setDuration(&cfg.CredentialTTL, jc.CredentialTTL)
	setIf(&cfg.OAuthEnabled, jc.OAuthEnabled)
	setIf(&cfg.ServerLogout, jc.ServerLogout)
	setIf(&cfg.CallbackAddr, jc.CallbackAddr)
	setIf(&cfg.SignInRoute, jc.SignInRoute)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *duration) {
	if v != nil {
		*dst = time.Duration(*v)
	}
}
