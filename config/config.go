// Package config loads the simulator configuration from an optional YAML
// file with environment-variable overrides. Defaults reproduce the built-in
// six-unit catalogue and the 5-second dashboard tick, so an empty
// configuration is fully functional.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/windscope/turbinesim"
)

// Config is the complete application configuration.
type Config struct {
	Units     []UnitConfig    `mapstructure:"units"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// UnitConfig describes one catalogue entry. Status and Profile are decoded
// from their string forms via their TextUnmarshaler implementations.
type UnitConfig struct {
	ID           int                        `mapstructure:"id"`
	Name         string                     `mapstructure:"name"`
	CurrentYield float64                    `mapstructure:"current_yield"`
	Status       turbinesim.Status          `mapstructure:"status"`
	Profile      turbinesim.BehaviorProfile `mapstructure:"profile"`
}

// SimulatorConfig holds generator timing and sizing knobs.
type SimulatorConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	PointHint    int           `mapstructure:"point_hint"`
	Seed         uint64        `mapstructure:"seed"` // 0 seeds from the clock
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file path and the environment.
// An empty path loads defaults and environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TURBINESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	// The text-unmarshaller hook decodes status and profile strings into
	// their typed forms; the remaining hooks restore viper's defaults.
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values: the built-in catalogue, the
// 5-second dashboard tick and info-level logging.
func setDefaults(v *viper.Viper) {
	units := make([]map[string]interface{}, 0, 6)
	for _, u := range turbinesim.DefaultUnits() {
		units = append(units, map[string]interface{}{
			"id":            u.ID,
			"name":          u.Name,
			"current_yield": u.CurrentYield,
			"status":        string(u.Status),
			"profile":       u.Profile.String(),
		})
	}
	v.SetDefault("units", units)

	v.SetDefault("simulator.tick_interval", "5s")
	v.SetDefault("simulator.point_hint", 100)
	v.SetDefault("simulator.seed", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if len(c.Units) == 0 {
		return fmt.Errorf("units must contain at least one entry")
	}
	for _, u := range c.Units {
		if u.CurrentYield < 0 || u.CurrentYield > 100 {
			return fmt.Errorf("unit %d: current_yield must be within [0,100], got %v", u.ID, u.CurrentYield)
		}
	}

	if c.Simulator.TickInterval < time.Second {
		return fmt.Errorf("simulator.tick_interval must be at least 1s")
	}
	if c.Simulator.PointHint < 1 {
		return fmt.Errorf("simulator.point_hint must be at least 1")
	}

	if _, ok := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Registry builds the unit registry from the configured catalogue.
func (c *Config) Registry() (*turbinesim.Registry, error) {
	units := make([]turbinesim.Unit, 0, len(c.Units))
	for _, u := range c.Units {
		units = append(units, turbinesim.Unit{
			ID:           u.ID,
			Name:         u.Name,
			CurrentYield: u.CurrentYield,
			Status:       u.Status,
			Profile:      u.Profile,
		})
	}
	return turbinesim.NewRegistry(units)
}
