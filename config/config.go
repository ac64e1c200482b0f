// Package config loads the client configuration for the vendor panel.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration.
type Config struct {
	// Host is the websocket URL of the game-script bridge.
	Host string `yaml:"host"`
	// Resource is the resource name this panel serves, used for logging.
	Resource string `yaml:"resource"`
	// Theme forces a palette id; 0 keeps the vendor's own theme.
	Theme int `yaml:"theme"`

	Reconnect Reconnect `yaml:"reconnect"`
}

// Reconnect controls the dial retry backoff.
type Reconnect struct {
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
	Attempts int           `yaml:"attempts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:     "ws://127.0.0.1:3785/vendors",
		Resource: "peleg-vendors",
		Reconnect: Reconnect{
			MinDelay: time.Second,
			MaxDelay: 30 * time.Second,
			Attempts: 5,
		},
	}
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize fills defaulted fields back in after an override wiped them.
func (c *Config) Normalize() {
	def := Default()
	if c.Host == "" {
		c.Host = def.Host
	}
	if c.Resource == "" {
		c.Resource = def.Resource
	}
	if c.Reconnect.MinDelay <= 0 {
		c.Reconnect.MinDelay = def.Reconnect.MinDelay
	}
	if c.Reconnect.MaxDelay < c.Reconnect.MinDelay {
		c.Reconnect.MaxDelay = c.Reconnect.MinDelay
	}
	if c.Reconnect.Attempts <= 0 {
		c.Reconnect.Attempts = def.Reconnect.Attempts
	}
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Host, "ws://") && !strings.HasPrefix(c.Host, "wss://") {
		return fmt.Errorf("config: host %q must be a ws:// or wss:// URL", c.Host)
	}
	if c.Theme < 0 {
		return fmt.Errorf("config: theme %d is not a valid palette id", c.Theme)
	}
	return nil
}
