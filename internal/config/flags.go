package config

import (
	"flag"
	"time"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Also log to this file")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagTextureSize = flag.Int("texture-size", 0, "Paint texture resolution")
	flagDecayTime   = flag.Float64("decay-time", 0, "Seconds for a full stroke to fade")
	flagInvert      = flag.Bool("invert", false, "Swap the touch zones of both limbs")
	flagTerminal    = flag.Bool("terminal", false, "Show coverage in the terminal")
	flagSnapshots   = flag.String("snapshots", "", "Directory for PNG snapshots")
	flagLinger      = flag.Duration("linger", 0, "Keep ticking after the walk ends")
	flagMute        = flag.Bool("mute", false, "Disable contact sounds")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagTextureSize > 0 {
		cfg.Paint.TextureSize = *flagTextureSize
	}
	if *flagDecayTime > 0 {
		cfg.Paint.DecayTime = float32(*flagDecayTime)
	}
	if *flagInvert {
		cfg.Touch.Left.Invert = true
		cfg.Touch.Right.Invert = true
	}
	if *flagTerminal {
		cfg.Sim.Terminal = true
	}
	if *flagSnapshots != "" {
		cfg.Sim.SnapshotDir = *flagSnapshots
	}
	if *flagLinger > 0 {
		cfg.Sim.Linger = *flagLinger
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
}

// resetFlags restores every flag to its zero value. Tests use it.
func resetFlags() {
	*flagConfig = ""
	*flagDebug = false
	*flagLogFile = ""
	*flagWindowed = false
	*flagFullscreen = false
	*flagWidth = 0
	*flagHeight = 0
	*flagTextureSize = 0
	*flagDecayTime = 0
	*flagInvert = false
	*flagTerminal = false
	*flagSnapshots = ""
	*flagLinger = time.Duration(0)
	*flagMute = false
}
