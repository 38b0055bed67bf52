// Package config loads the console configuration from the environment,
// optionally overridden by a YAML file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the console needs to run.
type Config struct {
	// BaseURL is the sygpress backend API root, e.g. https://api.example.com/api/v1.
	BaseURL string `env:"SYGPRESS_API_URL,default=http://localhost:8080/api/v1" yaml:"base_url"`
	// ListenAddr is the local address the console is served on.
	ListenAddr string `env:"SYGPRESS_LISTEN_ADDR,default=127.0.0.1:7420" yaml:"listen_addr"`
	// StateDir is where the persisted session state file lives.
	StateDir string `env:"SYGPRESS_STATE_DIR" yaml:"state_dir"`
	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration `env:"SYGPRESS_REQUEST_TIMEOUT,default=30s" yaml:"request_timeout"`
	// LogLevel is a logrus level string.
	LogLevel string `env:"SYGPRESS_LOG_LEVEL,default=info" yaml:"log_level"`
}

// Load reads configuration from a .env file (if present) and the process
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, cfg.Validate()
}

// LoadFile loads configuration from a YAML file, with environment values as
// the base layer.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() error {
	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.StateDir = filepath.Join(home, ".sygpress")
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL %q is not a valid absolute URL", c.BaseURL)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

// StatePath returns the session state file location.
func (c *Config) StatePath() string {
	return filepath.Join(c.StateDir, "sygpress_state.json")
}
