package soft

import (
	"fmt"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// program is a CPU program. Draw programs run per fragment; blit programs
// run per texel of the destination.
type program struct {
	name string
	draw func(f fragment, p *gpu.Params) gpu.Color
	blit func(src *Texture, x, y int, p *gpu.Params) (gpu.Color, error)
}

func (p *program) Name() string { return p.name }

var programs = map[string]*program{
	gpu.ProgramStamp:  {name: gpu.ProgramStamp, draw: stampFragment},
	gpu.ProgramExtend: {name: gpu.ProgramExtend, blit: extendTexel},
	gpu.ProgramDecay:  {name: gpu.ProgramDecay, blit: decayTexel},
}

// stampFragment blends a radial brush over the base texture. With
// ParamPrepareUV set it outputs the island id instead.
func stampFragment(f fragment, p *gpu.Params) gpu.Color {
	if p.Float(gpu.ParamPrepareUV) > 0.5 {
		return gpu.Color{R: float32(f.Island), A: 1}
	}

	var base gpu.Color
	if t, ok := p.Texture(gpu.ParamMainTex).(*Texture); ok && t != nil && t.data != nil {
		base = t.sample(f.UV.X, f.UV.Y)
	}

	radius := p.Float(gpu.ParamRadius)
	hardness := p.Float(gpu.ParamHardness)
	strength := p.Float(gpu.ParamStrength)
	color := p.Color(gpu.ParamColor)

	d := f.World.Distance(p.Vec3(gpu.ParamPosition))
	falloff := 1 - math.SmoothStep(radius*hardness, radius, d)
	edge := math.Clamp(falloff*strength*color.A, 0, 1)

	return gpu.Color{
		R: base.R + (color.R-base.R)*edge,
		G: base.G + (color.G-base.G)*edge,
		B: base.B + (color.B-base.B)*edge,
		A: base.A + edge*(1-base.A),
	}
}

// ring offsets for the seam search, unit steps in 8 directions.
var ring = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

// extendTexel keeps island texels and fills gutter texels from the nearest
// ring of island texels within the offset.
func extendTexel(src *Texture, x, y int, p *gpu.Params) (gpu.Color, error) {
	c := src.at(x, y)
	islands, ok := p.Texture(gpu.ParamIslands).(*Texture)
	if !ok || islands == nil || islands.data == nil {
		return c, nil
	}
	if !islands.sameSize(src) {
		return gpu.Color{}, fmt.Errorf("%w: islands %dx%d, source %dx%d",
			gpu.ErrSizeMismatch, islands.width, islands.height, src.width, src.height)
	}
	if islands.at(x, y).R != 0 {
		return c, nil
	}

	offset := int(p.Float(gpu.ParamOffset))
	for r := 1; r <= offset; r++ {
		var best gpu.Color
		found := false
		for _, d := range ring {
			sx, sy := x+d[0]*r, y+d[1]*r
			if sx < 0 || sy < 0 || sx >= src.width || sy >= src.height {
				continue
			}
			if islands.at(sx, sy).R == 0 {
				continue
			}
			if found {
				best = best.Max(src.at(sx, sy))
			} else {
				best = src.at(sx, sy)
				found = true
			}
		}
		if found {
			return best, nil
		}
	}
	return c, nil
}

// decayTexel fades coverage by elapsed/decayTime. A non-positive decay time
// clears coverage at once.
func decayTexel(src *Texture, x, y int, p *gpu.Params) (gpu.Color, error) {
	c := src.at(x, y)
	decayTime := p.Float(gpu.ParamDecayTime)
	if decayTime <= 0 {
		c.A = 0
		return c, nil
	}
	c.A = max(0, c.A-p.Float(gpu.ParamElapsed)/decayTime)
	return c, nil
}
