package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when --config is not given.
const EnvConfig = "TOUCHPAINT_CONFIG"

// Load builds the configuration: defaults, then the first config file found,
// then command-line flags. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := configFile(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configFile picks the file to load: --config, then $TOUCHPAINT_CONFIG,
// then the standard locations.
func configFile() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile returns the first existing standard location, or "".
func findConfigFile() string {
	candidates := []string{
		"touchpaint.yaml",
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TouchPaint")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TouchPaint")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "touchpaint")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "touchpaint")
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelt setting does not silently keep its default. An empty file is
// accepted.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports every setting the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Paint.TextureSize <= 0, "paint.texture_size must be positive, got %d", c.Paint.TextureSize)
	check(c.Paint.ExtendOffset < 0, "paint.extend_offset must not be negative, got %v", c.Paint.ExtendOffset)
	check(c.Scheduler.Interval < 0, "scheduler.interval must not be negative, got %v", c.Scheduler.Interval)
	check(c.Brush.Radius <= 0, "brush.radius must be positive, got %v", c.Brush.Radius)
	check(c.Brush.Hardness < 0 || c.Brush.Hardness > 1, "brush.hardness must be in [0, 1], got %v", c.Brush.Hardness)
	check(c.Touch.Policy.StampInterval < 0, "touch.policy.stamp_interval must not be negative, got %v", c.Touch.Policy.StampInterval)
	check(c.Sim.TickRate < 0, "sim.tick_rate must not be negative, got %d", c.Sim.TickRate)
	check(c.Audio.Volume < 0 || c.Audio.Volume > 1, "audio.volume must be in [0, 1], got %v", c.Audio.Volume)
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}
