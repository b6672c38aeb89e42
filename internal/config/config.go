// Package config loads the application configuration in three layers:
// built-in defaults, then an optional YAML file, then EARA_-prefixed
// environment variables. The merged result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/harness"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

// envPrefix is prepended to every environment override, e.g.
// EARA_MODEL_FATIGUE_RATE.
const envPrefix = "EARA_"

// #region types
// Config is the full application configuration.
type Config struct {
	Model   capacity.Config `yaml:"model" envPrefix:"MODEL_"`
	Harness HarnessConfig   `yaml:"harness" envPrefix:"HARNESS_"`
	Store   StoreConfig     `yaml:"store" envPrefix:"STORE_"`
	Logging LoggingConfig   `yaml:"logging" envPrefix:"LOG_"`
}

// HarnessConfig configures validation runs.
type HarnessConfig struct {
	// Schedule is the default schedule in compact form, e.g. "work:90,rest:30".
	Schedule string `yaml:"schedule" env:"SCHEDULE"`
	// Cycles repeats the schedule.
	Cycles int `yaml:"cycles" env:"CYCLES"`
	// TimeSteps caps the number of simulated minutes per run.
	TimeSteps  int                `yaml:"time_steps" env:"TIME_STEPS"`
	Thresholds harness.Thresholds `yaml:"thresholds" envPrefix:"THRESHOLD_"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `yaml:"path" env:"PATH"`
}

// LoggingConfig configures operational logging and tick tracing.
type LoggingConfig struct {
	// Level is "info", "debug", or "trace".
	Level string `yaml:"level" env:"LEVEL"`
	// TracePath, when set, receives one JSONL record per simulated tick.
	TracePath string `yaml:"trace_path" env:"TRACE_PATH"`
}

// #endregion types

// #region defaults
// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model: capacity.DefaultConfig(),
		Harness: HarnessConfig{
			Schedule:   "work:90,rest:30",
			Cycles:     4,
			TimeSteps:  480,
			Thresholds: harness.DefaultThresholds(),
		},
		Store:   StoreConfig{Path: "eara.db"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// #endregion defaults

// #region load
// Load builds the configuration from defaults, the YAML file at path (a
// missing file is only an error when the path was given explicitly), and
// environment overrides, then validates the result.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// fall through to env overrides
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the merged configuration.
func (c Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Harness.Schedule != "" {
		if _, err := schedule.ParseCompact(c.Harness.Schedule); err != nil {
			return err
		}
	}
	if c.Harness.TimeSteps < 0 {
		return fmt.Errorf("harness time_steps must be >= 0, got %d", c.Harness.TimeSteps)
	}
	if c.Harness.Thresholds.MAE <= 0 {
		return fmt.Errorf("harness mae threshold must be > 0, got %v", c.Harness.Thresholds.MAE)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}
	return nil
}

// Schedule resolves the configured default schedule, with cycles applied.
func (c Config) Schedule() (schedule.Schedule, error) {
	sched, err := schedule.ParseCompact(c.Harness.Schedule)
	if err != nil {
		return nil, err
	}
	if c.Harness.Cycles > 1 {
		sched = sched.Repeat(c.Harness.Cycles)
	}
	return sched, nil
}

// #endregion load
