// Package config loads tasksync configuration from standard locations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Klaim/tasksync/logging"
	"github.com/Klaim/tasksync/telemetry"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds settings loaded from tasksync.toml.
type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
	Reschedule RescheduleConfig `toml:"reschedule"`
}

// LoggingConfig configures the logging package.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
}

// TelemetryConfig configures the OpenTelemetry provider.
type TelemetryConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Endpoint    string `toml:"endpoint"`
	Protocol    string `toml:"protocol"`
	Insecure    bool   `toml:"insecure"`
}

// RescheduleConfig configures defaults for reschedulable tasks.
// Durations are strings in Go syntax (e.g. "500ms", "2s").
type RescheduleConfig struct {
	DefaultInterval string `toml:"default_interval"`
	MinInterval     string `toml:"min_interval"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Telemetry: TelemetryConfig{
			ServiceName: "tasksync",
			Protocol:    "grpc",
		},
		Reschedule: RescheduleConfig{
			DefaultInterval: "1s",
			MinInterval:     "10ms",
		},
	}
}

// StandardPaths returns the standard config file locations in order of priority.
func StandardPaths() []string {
	paths := []string{"tasksync.toml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tasksync", "tasksync.toml"))
	}

	return paths
}

// Load loads configuration from the first available standard location.
// When no file is found, defaults are returned; a missing file is not an
// error.
func Load() (*Config, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return cfg, path, nil
		}
	}
	return DefaultConfig(), "", nil
}

// LoadFile loads configuration from a specific file, applying defaults for
// unset values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Telemetry.Protocol {
	case "", "grpc", "http":
	default:
		return fmt.Errorf("%w: telemetry protocol %q (use 'grpc' or 'http')",
			ErrInvalidConfig, c.Telemetry.Protocol)
	}

	def, err := c.Reschedule.ParseDefaultInterval()
	if err != nil {
		return fmt.Errorf("%w: reschedule default_interval: %v", ErrInvalidConfig, err)
	}
	min, err := c.Reschedule.ParseMinInterval()
	if err != nil {
		return fmt.Errorf("%w: reschedule min_interval: %v", ErrInvalidConfig, err)
	}
	if def < min {
		return fmt.Errorf("%w: default_interval %v below min_interval %v",
			ErrInvalidConfig, def, min)
	}

	return nil
}

// ParseDefaultInterval returns the parsed default task interval.
func (r RescheduleConfig) ParseDefaultInterval() (time.Duration, error) {
	if r.DefaultInterval == "" {
		return time.Second, nil
	}
	return time.ParseDuration(r.DefaultInterval)
}

// ParseMinInterval returns the parsed minimum task interval.
func (r RescheduleConfig) ParseMinInterval() (time.Duration, error) {
	if r.MinInterval == "" {
		return 10 * time.Millisecond, nil
	}
	return time.ParseDuration(r.MinInterval)
}

// ApplyLogging applies the logging section to a logger.
func (c *Config) ApplyLogging(logger *logging.Logger) {
	logger.SetLevel(logging.ParseLevel(c.Logging.Level))
}

// TelemetryProviderConfig converts the telemetry section into a provider
// configuration.
func (c *Config) TelemetryProviderConfig() telemetry.ProviderConfig {
	return telemetry.ProviderConfig{
		ServiceName: c.Telemetry.ServiceName,
		Endpoint:    c.Telemetry.Endpoint,
		Protocol:    c.Telemetry.Protocol,
		Insecure:    c.Telemetry.Insecure,
	}
}
