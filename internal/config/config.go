// Package config resolves CLI settings from a YAML file and FORMSPEC_*
// environment variables. Flags are applied on top by the command layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".formspec.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMSPEC_"

// Config holds the settings shared by the commands that talk to the forms
// service or build endpoint URLs.
type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	APIToken   string        `yaml:"api_token,omitempty"`
	FormID     string        `yaml:"form_id,omitempty"`
	Captcha    bool          `yaml:"captcha"`
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIBaseURL: "http://localhost:8080",
		Timeout:    30 * time.Second,
		Retries:    3,
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories. The token is
// never written.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	clone := *c
	clone.APIToken = ""
	data, err := yaml.Marshal(&clone)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := env("API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := env("API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := env("FORM_ID"); v != "" {
		c.FormID = v
	}
	if v := env("CAPTCHA"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sCAPTCHA: %w", EnvPrefix, err)
		}
		c.Captcha = b
	}
	if v := env("TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}
	if v := env("RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sRETRIES: %w", EnvPrefix, err)
		}
		c.Retries = n
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}

// Validate checks the settings needed to reach the forms service.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: api_base_url is required")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	if c.Retries < 0 {
		return errors.New("config: retries must not be negative")
	}
	// The altcha challenge URL is derived from the form id.
	if c.Captcha && strings.TrimSpace(c.FormID) == "" {
		return errors.New("config: captcha requires form_id")
	}
	return nil
}
