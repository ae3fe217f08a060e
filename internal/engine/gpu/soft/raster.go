package soft

import (
	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// fragment is the interpolated input to a draw kernel.
type fragment struct {
	X, Y   int       // texel
	UV     math.Vec2 // texel centre in uv
	World  math.Vec3 // world-space position
	Island uint32
}

// rasterize walks every texel whose centre lies inside a mesh triangle laid
// out in uv space and calls fn with the interpolated attributes.
func rasterize(r gpu.Renderable, w, h int, fn func(fragment)) {
	m := r.Mesh()
	if m == nil || len(m.UVs) != len(m.Positions) {
		return
	}
	model := r.Model()
	islands, _ := m.Islands()
	fw, fh := float32(w), float32(h)

	for tri := 0; tri < m.TriangleCount(); tri++ {
		ia, ib, ic := m.Triangle(tri)
		if int(ia) >= len(m.UVs) || int(ib) >= len(m.UVs) || int(ic) >= len(m.UVs) {
			continue
		}
		// Triangle in texel space
		a := math.Vec2{X: m.UVs[ia].X * fw, Y: m.UVs[ia].Y * fh}
		b := math.Vec2{X: m.UVs[ib].X * fw, Y: m.UVs[ib].Y * fh}
		c := math.Vec2{X: m.UVs[ic].X * fw, Y: m.UVs[ic].Y * fh}

		area := b.Sub(a).Cross(c.Sub(a))
		if area == 0 {
			continue
		}

		x0 := clampInt(int(min(a.X, b.X, c.X)), 0, w-1)
		x1 := clampInt(int(max(a.X, b.X, c.X)), 0, w-1)
		y0 := clampInt(int(min(a.Y, b.Y, c.Y)), 0, h-1)
		y1 := clampInt(int(max(a.Y, b.Y, c.Y)), 0, h-1)

		pa, pb, pc := m.Positions[ia], m.Positions[ib], m.Positions[ic]

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				p := math.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}
				w0 := c.Sub(b).Cross(p.Sub(b)) / area
				w1 := a.Sub(c).Cross(p.Sub(c)) / area
				w2 := 1 - w0 - w1
				const eps = -1e-5
				if w0 < eps || w1 < eps || w2 < eps {
					continue
				}
				local := pa.Scale(w0).Add(pb.Scale(w1)).Add(pc.Scale(w2))
				fn(fragment{
					X:      x,
					Y:      y,
					UV:     math.Vec2{X: p.X / fw, Y: p.Y / fh},
					World:  model.TransformVec3(local),
					Island: islands[tri],
				})
			}
		}
	}
}
