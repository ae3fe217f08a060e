package soft

import (
	"github.com/Faultbox/touchpaint/internal/engine/gpu"
)

// Texture is a CPU texture. Texel (0, 0) is at uv (0, 0).
type Texture struct {
	id     uint32
	width  int
	height int
	format gpu.Format
	stride int
	data   []float32
}

func newTexture(id uint32, w, h int, f gpu.Format) *Texture {
	stride := 4
	if f == gpu.R32F {
		stride = 1
	}
	return &Texture{
		id:     id,
		width:  w,
		height: h,
		format: f,
		stride: stride,
		data:   make([]float32, w*h*stride),
	}
}

// Size implements gpu.Texture.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// Format implements gpu.Texture.
func (t *Texture) Format() gpu.Format { return t.format }

// ID returns the backend texture id.
func (t *Texture) ID() uint32 { return t.id }

// at returns the texel at (x, y). Single-channel textures read back in R
// with A = 1.
func (t *Texture) at(x, y int) gpu.Color {
	i := (y*t.width + x) * t.stride
	if t.stride == 1 {
		return gpu.Color{R: t.data[i], A: 1}
	}
	return gpu.Color{R: t.data[i], G: t.data[i+1], B: t.data[i+2], A: t.data[i+3]}
}

func (t *Texture) set(x, y int, c gpu.Color) {
	i := (y*t.width + x) * t.stride
	if t.stride == 1 {
		t.data[i] = c.R
		return
	}
	t.data[i], t.data[i+1], t.data[i+2], t.data[i+3] = c.R, c.G, c.B, c.A
}

// sample does a nearest-texel lookup at uv, clamped to the edge.
func (t *Texture) sample(u, v float32) gpu.Color {
	x := clampInt(int(u*float32(t.width)), 0, t.width-1)
	y := clampInt(int(v*float32(t.height)), 0, t.height-1)
	return t.at(x, y)
}

func (t *Texture) fill(c gpu.Color) {
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			t.set(x, y, c)
		}
	}
}

func (t *Texture) clone() *Texture {
	c := *t
	c.data = append([]float32(nil), t.data...)
	return &c
}

func (t *Texture) sameSize(o *Texture) bool {
	return t.width == o.width && t.height == o.height
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
