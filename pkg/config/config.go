// Package config provides configuration loading for the run binaries.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkers   = 4
	DefaultTimeout   = "5m"
	DefaultOutputDir = "./out"
	DefaultEventBus  = "gochannel"
	DefaultBackend   = "static"
)

// BackendConfig selects and configures the generation backend.
type BackendConfig struct {
	Type      string `yaml:"type"` // static or http
	URL       string `yaml:"url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// Config is the structure of the contentgraph.yaml file.
type Config struct {
	LogLevel  string        `yaml:"log_level"`
	Workers   int           `yaml:"workers"`
	Timeout   string        `yaml:"timeout"`
	OutputDir string        `yaml:"output_dir"`
	EventBus  string        `yaml:"event_bus"`
	Backend   BackendConfig `yaml:"backend"`
}

// Load reads and validates a configuration file.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault attempts to load the config file, falling back to the
// default configuration when the file does not exist.
func LoadOrDefault(filepath string) *Config {
	cfg, err := Load(filepath)
	if err != nil {
		cfg = &Config{}
		cfg.applyDefaults()
	}

	return cfg
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}

	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	if c.EventBus == "" {
		c.EventBus = DefaultEventBus
	}

	if c.Backend.Type == "" {
		c.Backend.Type = DefaultBackend
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}

	switch c.EventBus {
	case "gochannel", "kafka":
	default:
		return fmt.Errorf("unknown event bus provider %q", c.EventBus)
	}

	switch c.Backend.Type {
	case "static":
	case "http":
		if c.Backend.URL == "" {
			return fmt.Errorf("backend.url is required for the http backend")
		}
	default:
		return fmt.Errorf("unknown backend type %q", c.Backend.Type)
	}

	return nil
}

// TimeoutDuration returns the parsed run timeout budget.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}

	return d
}

// APIKey resolves the backend API key from the configured environment
// variable.
func (c *Config) APIKey() string {
	if c.Backend.APIKeyEnv == "" {
		return ""
	}

	return os.Getenv(c.Backend.APIKeyEnv)
}
