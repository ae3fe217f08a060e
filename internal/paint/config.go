package paint

import (
	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// Config holds per-surface defaults.
type Config struct {
	TextureSize  int     `yaml:"texture_size"`
	DecayTime    float32 `yaml:"decay_time"`
	ExtendOffset float32 `yaml:"extend_offset"`
}

// DefaultConfig returns the default surface settings.
func DefaultConfig() Config {
	return Config{
		TextureSize:  512,
		DecayTime:    3,
		ExtendOffset: 2,
	}
}

// Brush parametrises a radial stamp. Radius is in world units; coverage is
// full inside Radius*Hardness and falls off smoothly to zero at Radius.
// Hardness is in [0, 1]; values outside are clamped when painting, so a stamp
// never reaches past Radius.
type Brush struct {
	Radius   float32   `yaml:"radius"`
	Hardness float32   `yaml:"hardness"`
	Strength float32   `yaml:"strength"`
	Color    gpu.Color `yaml:"color"`
}

// DefaultBrush returns the brush touch contacts paint with: a 0.5 unit hard
// stamp (Hardness 1) at full strength.
func DefaultBrush() Brush {
	return Brush{
		Radius:   0.5,
		Hardness: 1,
		Strength: 1,
		Color:    gpu.White,
	}
}

// params writes the brush into stamp program parameters.
func (b Brush) params(p *gpu.Params) *gpu.Params {
	return p.
		SetFloat(gpu.ParamRadius, b.Radius).
		SetFloat(gpu.ParamHardness, math.Clamp(b.Hardness, 0, 1)).
		SetFloat(gpu.ParamStrength, b.Strength).
		SetColor(gpu.ParamColor, b.Color)
}
