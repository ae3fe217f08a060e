// Package config handles loading and saving the touchpaint settings.
package config

import (
	"time"

	"github.com/Faultbox/touchpaint/internal/engine/scene"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/internal/touch"
)

// Config holds all settings.
type Config struct {
	Paint     paint.Config    `yaml:"paint"`
	Brush     paint.Brush     `yaml:"brush"`
	Touch     TouchConfig     `yaml:"touch"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sim       SimConfig       `yaml:"sim"`
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TouchConfig holds the per-limb source settings and the restamp policy.
type TouchConfig struct {
	Left   touch.Config `yaml:"left"`
	Right  touch.Config `yaml:"right"`
	Policy touch.Policy `yaml:"policy"`
}

// SchedulerConfig holds the decay cadence. Zero decays every tick.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SimConfig holds the scripted walk used by the simulator and viewer.
type SimConfig struct {
	Corridor   scene.CorridorConfig `yaml:"corridor"`
	WalkSpeed  float32              `yaml:"walk_speed"`
	SwayYaw    float32              `yaml:"sway_yaw"`
	SwayPeriod float32              `yaml:"sway_period"`
	TickRate   int                  `yaml:"tick_rate"`
	// Linger keeps ticking after the walk ends so decay can be observed.
	Linger      time.Duration `yaml:"linger"`
	SnapshotDir string        `yaml:"snapshot_dir"`
	Terminal    bool          `yaml:"terminal"`
}

// TickInterval returns the fixed simulation step.
func (s SimConfig) TickInterval() float32 {
	if s.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float32(s.TickRate)
}

// GraphicsConfig holds display settings for the interactive viewer.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Samples    int  `yaml:"samples"`
	// MouseLook lets the mouse steer the gaze instead of the scripted sway.
	MouseLook        bool    `yaml:"mouse_look"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

// AudioConfig holds the contact cue settings of the viewer.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
	// MaxDistance silences cues for contacts farther than this from the eye.
	MaxDistance float32 `yaml:"max_distance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Paint: paint.DefaultConfig(),
		Brush: paint.DefaultBrush(),
		Touch: TouchConfig{
			Left:   touch.DefaultConfig(touch.Left),
			Right:  touch.DefaultConfig(touch.Right),
			Policy: touch.DefaultPolicy(),
		},
		Scheduler: SchedulerConfig{
			Interval: 50 * time.Millisecond,
		},
		Sim: SimConfig{
			Corridor:    scene.DefaultCorridor(),
			WalkSpeed:   1.2,
			SwayYaw:     35,
			SwayPeriod:  2.5,
			TickRate:    60,
			Linger:      time.Second,
			SnapshotDir: "snapshots",
		},
		Graphics: GraphicsConfig{
			Width:            1280,
			Height:           720,
			VSync:            true,
			Samples:          4,
			MouseSensitivity: 0.15,
		},
		Audio: AudioConfig{
			Enabled:     true,
			Volume:      0.6,
			MaxDistance: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
