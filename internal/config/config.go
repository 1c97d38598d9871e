// Package config provides configuration loading using koanf.
// Precedence: CLOCK_* environment variables, then compiled defaults.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // display.timezone must resolve on hosts without zoneinfo

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/aelexs/atomic-clock/internal/domain"
)

// EnvPrefix namespaces every environment variable the clock reads.
// Unprefixed names such as DISPLAY collide with the host environment.
const EnvPrefix = "CLOCK_"

// Config holds all application configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	Log     LogConfig     `koanf:"log"`
	Display DisplayConfig `koanf:"display"`
	OTEL    OTELConfig    `koanf:"otel"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"` // Empty logs to stderr
}

// DisplayConfig holds presentation configuration.
type DisplayConfig struct {
	Mode          string        `koanf:"mode"`     // auto, tui or plain
	Timezone      string        `koanf:"timezone"` // IANA name; "Local" or empty for the host zone
	Color         bool          `koanf:"color"`
	FrameInterval time.Duration `koanf:"frame_interval"`
	PlainInterval time.Duration `koanf:"plain_interval"`
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint    string `koanf:"endpoint"` // Empty disables OTLP export
	ServiceName string `koanf:"service_name"`
}

// defaults returns a Config with compiled default values.
func defaults() *Config {
	return &Config{
		Environment: "local",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Display: DisplayConfig{
			Mode:          string(domain.DisplayModeAuto),
			Timezone:      "Local",
			Color:         true,
			FrameInterval: domain.FrameInterval,
			PlainInterval: domain.DefaultPlainInterval,
		},
		OTEL: OTELConfig{
			ServiceName: "atomicclock",
		},
	}
}

// envKey maps CLOCK_DISPLAY_PLAIN_INTERVAL to display.plain_interval: the
// first underscore after the prefix separates the section from the key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Load loads configuration following the precedence:
// 1. Environment variables (highest)
// 2. Compiled defaults (lowest)
//
// Invalid values cause a startup failure wrapping domain.ErrInvalidConfig;
// missing required values wrap domain.ErrConfigRequired.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks value ranges and environment-specific requirements.
func validate(cfg *Config) error {
	if !domain.IsValidDisplayMode(domain.DisplayMode(cfg.Display.Mode)) {
		return fmt.Errorf("%w: display.mode %q", domain.ErrInvalidConfig, cfg.Display.Mode)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if cfg.Display.FrameInterval <= 0 {
		return fmt.Errorf("%w: display.frame_interval must be positive", domain.ErrInvalidConfig)
	}
	if cfg.Display.PlainInterval <= 0 {
		return fmt.Errorf("%w: display.plain_interval must be positive", domain.ErrInvalidConfig)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log.format %q", domain.ErrInvalidConfig, cfg.Log.Format)
	}

	// In production, metrics must leave the process.
	if cfg.IsProd() && cfg.OTEL.Endpoint == "" {
		return fmt.Errorf("%w: otel.endpoint", domain.ErrConfigRequired)
	}

	return nil
}

// Location resolves the configured display time zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Display.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: display.timezone %q: %w", domain.ErrInvalidConfig, c.Display.Timezone, err)
	}
	return loc, nil
}

// Mode returns the configured display mode.
func (c *Config) Mode() domain.DisplayMode {
	return domain.DisplayMode(c.Display.Mode)
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
