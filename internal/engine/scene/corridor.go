package scene

import (
	"fmt"

	"github.com/Faultbox/touchpaint/internal/engine/collision"
	"github.com/Faultbox/touchpaint/internal/engine/mesh"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// CorridorConfig describes a straight corridor running from the origin
// along -Z with walls on both sides and one across the far end.
type CorridorConfig struct {
	Length     float32 `yaml:"length"`
	HalfWidth  float32 `yaml:"half_width"`
	WallHeight float32 `yaml:"wall_height"`
	// Segments is the number of wall panels per side.
	Segments int `yaml:"segments"`
	// SeamGap is the UV gutter of the split panels on the right side.
	// Zero uses plain single-island panels there too.
	SeamGap   float32 `yaml:"seam_gap"`
	EyeHeight float32 `yaml:"eye_height"`
}

// DefaultCorridor returns a narrow corridor that both hands can reach.
func DefaultCorridor() CorridorConfig {
	return CorridorConfig{
		Length:     8,
		HalfWidth:  0.6,
		WallHeight: 2.5,
		Segments:   4,
		SeamGap:    0.125,
		EyeHeight:  1.6,
	}
}

// Corridor adds the corridor geometry to s and returns the walking path
// down its middle at eye height.
func Corridor(s *Scene, cfg CorridorConfig) ([]math.Vec3, error) {
	if cfg.Length <= 0 || cfg.HalfWidth <= 0 || cfg.WallHeight <= 0 || cfg.Segments <= 0 {
		return nil, fmt.Errorf("invalid corridor %+v", cfg)
	}

	panel := cfg.Length / float32(cfg.Segments)
	y := cfg.WallHeight / 2
	for i := 0; i < cfg.Segments; i++ {
		z := -panel * (float32(i) + 0.5)

		s.AddWall(fmt.Sprintf("left-%d", i),
			math.Vec3{X: -cfg.HalfWidth, Y: y, Z: z}, math.Vec3{X: 1},
			panel, cfg.WallHeight, nil)

		name := fmt.Sprintf("right-%d", i)
		var m *mesh.Mesh
		if cfg.SeamGap > 0 {
			m = mesh.SplitQuad(name, panel, cfg.WallHeight, cfg.SeamGap)
		}
		s.AddWall(name,
			math.Vec3{X: cfg.HalfWidth, Y: y, Z: z}, math.Vec3{X: -1},
			panel, cfg.WallHeight, m)
	}

	s.AddWall("end",
		math.Vec3{Y: y, Z: -cfg.Length}, math.Vec3{Z: 1},
		2*cfg.HalfWidth, cfg.WallHeight, nil)

	s.AddBlocker("floor", collision.NewAABB(
		math.Vec3{X: -cfg.HalfWidth, Y: -0.1, Z: -cfg.Length},
		math.Vec3{X: cfg.HalfWidth, Y: 0, Z: 0},
	))

	// Stop short of the end wall so it is reachable but not walked into.
	eye := cfg.EyeHeight
	return []math.Vec3{
		{Y: eye},
		{Y: eye, Z: -max(cfg.Length-cfg.HalfWidth-0.5, 0)},
	}, nil
}
