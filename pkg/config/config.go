// Package config holds the service configuration: browser launch settings,
// session limits, navigation guard patterns, and logging. Values come from an
// optional YAML file layered over built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Browser  BrowserConfig  `yaml:"browser"`
	Sessions SessionsConfig `yaml:"sessions"`
	Guard    GuardConfig    `yaml:"guard"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BrowserConfig controls the shared Chromium engine and the contexts created
// for sessions.
type BrowserConfig struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool `yaml:"headless"`

	// Locale is applied to every browser context
	Locale string `yaml:"locale"`

	// Viewport dimensions for session pages
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	// Args are extra Chromium command-line switches
	Args []string `yaml:"args,omitempty"`
}

// SessionsConfig bounds the warm session store.
type SessionsConfig struct {
	// Max is the hard capacity of the store
	Max int `yaml:"max"`

	// IdleTimeout in seconds before a session is eligible for eviction
	IdleTimeout int `yaml:"idle_timeout"`

	// SweepInterval in seconds between idle-eviction passes
	SweepInterval int `yaml:"sweep_interval"`
}

// GuardConfig restricts which hosts sessions may navigate to. Glob patterns,
// denied takes precedence, an empty allowed list admits everything not
// denied.
type GuardConfig struct {
	AllowedHosts []string `yaml:"allowed_hosts,omitempty"`
	DeniedHosts  []string `yaml:"denied_hosts,omitempty"`
}

// LoggingConfig configures the zap logger and optional rotating file sink.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error
	Level string `yaml:"level"`

	// Format is "console" or "json"
	Format string `yaml:"format"`

	// File enables a rotating log file when non-empty
	File string `yaml:"file,omitempty"`

	// Rotation settings, passed through to lumberjack
	MaxSize    int  `yaml:"max_size"`    // megabytes
	MaxBackups int  `yaml:"max_backups"` // files
	MaxAge     int  `yaml:"max_age"`     // days
	Compress   bool `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			Locale:         "bg-BG",
			ViewportWidth:  1280,
			ViewportHeight: 720,
		},
		Sessions: SessionsConfig{
			Max:           5,
			IdleTimeout:   300,
			SweepInterval: 60,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     14,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the manager cannot operate with.
func (c *Config) Validate() error {
	if c.Sessions.Max <= 0 {
		return fmt.Errorf("sessions.max must be positive, got %d", c.Sessions.Max)
	}
	if c.Sessions.IdleTimeout <= 0 {
		return fmt.Errorf("sessions.idle_timeout must be positive, got %d", c.Sessions.IdleTimeout)
	}
	if c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("sessions.sweep_interval must be positive, got %d", c.Sessions.SweepInterval)
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("browser viewport must be positive, got %dx%d",
			c.Browser.ViewportWidth, c.Browser.ViewportHeight)
	}
	return nil
}
