package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"hubstaff-report/internal/domain"
)

// Environment keys.
const (
	KeyAPIURL      = "HUBSTAFF_API_URL"
	KeyAPIEmail    = "HUBSTAFF_API_EMAIL"
	KeyAPIPassword = "HUBSTAFF_API_PASSWORD"
	KeyAPIAppToken = "HUBSTAFF_API_APP_TOKEN"
	KeyAPITimeout  = "HUBSTAFF_API_TIMEOUT"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds environment-driven configuration.
type Config struct {
	Hubstaff struct {
		BaseURL  string
		Email    string
		Password string
		AppToken string
		Timeout  time.Duration // default: 10s
	}
}

// Credentials returns the static credential set for the API client.
func (c Config) Credentials() domain.Credentials {
	return domain.Credentials{
		BaseURL:  c.Hubstaff.BaseURL,
		Email:    c.Hubstaff.Email,
		Password: c.Hubstaff.Password,
		AppToken: c.Hubstaff.AppToken,
	}
}

// Load reads configuration from DefaultEnvFile and the environment.
func Load() (Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile reads configuration from an optional dotenv file at path, then the
// environment. Environment variables win over the file.
func LoadFile(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return cfg, fmt.Errorf("%w: read %s: %v", domain.ErrConfiguration, path, err)
			}
		}
	}
	for _, key := range []string{KeyAPIURL, KeyAPIEmail, KeyAPIPassword, KeyAPIAppToken, KeyAPITimeout} {
		if err := v.BindEnv(key); err != nil {
			return cfg, fmt.Errorf("%w: bind %s: %v", domain.ErrConfiguration, key, err)
		}
	}
	v.SetDefault(KeyAPITimeout, "10s")

	cfg.Hubstaff.BaseURL = strings.TrimSpace(v.GetString(KeyAPIURL))
	cfg.Hubstaff.Email = strings.TrimSpace(v.GetString(KeyAPIEmail))
	cfg.Hubstaff.Password = v.GetString(KeyAPIPassword)
	cfg.Hubstaff.AppToken = strings.TrimSpace(v.GetString(KeyAPIAppToken))

	var missing []string
	if cfg.Hubstaff.BaseURL == "" {
		missing = append(missing, KeyAPIURL)
	}
	if cfg.Hubstaff.Email == "" {
		missing = append(missing, KeyAPIEmail)
	}
	if cfg.Hubstaff.Password == "" {
		missing = append(missing, KeyAPIPassword)
	}
	if cfg.Hubstaff.AppToken == "" {
		missing = append(missing, KeyAPIAppToken)
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("%w: %s required", domain.ErrConfiguration, strings.Join(missing, ", "))
	}
	if err := validateBaseURL(cfg.Hubstaff.BaseURL); err != nil {
		return cfg, err
	}

	timeout, err := time.ParseDuration(v.GetString(KeyAPITimeout))
	if err != nil || timeout <= 0 {
		return cfg, fmt.Errorf("%w: %s must be a positive duration, got %q", domain.ErrConfiguration, KeyAPITimeout, v.GetString(KeyAPITimeout))
	}
	cfg.Hubstaff.Timeout = timeout

	return cfg, nil
}

// validateBaseURL requires an absolute http(s) URL with a host.
func validateBaseURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", domain.ErrConfiguration, KeyAPIURL, raw)
	}
	return nil
}
