package gpu

import (
	"sort"

	"github.com/Faultbox/touchpaint/pkg/math"
)

// Vector is a float vector parameter of 2 to 4 components.
type Vector struct {
	V [4]float32
	N int
}

// Params holds named program parameters. Batches clone params at record
// time, so a Params value can be reused and mutated between recordings.
type Params struct {
	floats   map[string]float32
	vectors  map[string]Vector
	textures map[string]Texture
}

// NewParams creates an empty parameter set.
func NewParams() *Params {
	return &Params{
		floats:   make(map[string]float32),
		vectors:  make(map[string]Vector),
		textures: make(map[string]Texture),
	}
}

// SetFloat sets a scalar parameter.
func (p *Params) SetFloat(name string, v float32) *Params {
	p.floats[name] = v
	return p
}

// SetVec3 sets a 3-component parameter.
func (p *Params) SetVec3(name string, v math.Vec3) *Params {
	p.vectors[name] = Vector{V: [4]float32{v.X, v.Y, v.Z, 0}, N: 3}
	return p
}

// SetColor sets a 4-component colour parameter.
func (p *Params) SetColor(name string, c Color) *Params {
	p.vectors[name] = Vector{V: [4]float32{c.R, c.G, c.B, c.A}, N: 4}
	return p
}

// SetTexture binds a texture parameter.
func (p *Params) SetTexture(name string, t Texture) *Params {
	p.textures[name] = t
	return p
}

// Float returns a scalar parameter, or 0 if unset.
func (p *Params) Float(name string) float32 {
	if p == nil {
		return 0
	}
	return p.floats[name]
}

// Vec3 returns a vector parameter as Vec3.
func (p *Params) Vec3(name string) math.Vec3 {
	if p == nil {
		return math.Vec3{}
	}
	v := p.vectors[name].V
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Color returns a vector parameter as Color.
func (p *Params) Color(name string) Color {
	if p == nil {
		return Color{}
	}
	v := p.vectors[name].V
	return Color{v[0], v[1], v[2], v[3]}
}

// Texture returns a texture parameter, or nil if unset.
func (p *Params) Texture(name string) Texture {
	if p == nil {
		return nil
	}
	return p.textures[name]
}

// Clone returns an independent copy. Cloning nil yields an empty set.
func (p *Params) Clone() *Params {
	c := NewParams()
	if p == nil {
		return c
	}
	for k, v := range p.floats {
		c.floats[k] = v
	}
	for k, v := range p.vectors {
		c.vectors[k] = v
	}
	for k, v := range p.textures {
		c.textures[k] = v
	}
	return c
}

// Each visits every parameter in name order. Backends use it to upload uniforms.
func (p *Params) Each(floatFn func(string, float32), vecFn func(string, Vector), texFn func(string, Texture)) {
	if p == nil {
		return
	}
	for _, k := range sortedKeys(p.floats) {
		floatFn(k, p.floats[k])
	}
	for _, k := range sortedKeys(p.vectors) {
		vecFn(k, p.vectors[k])
	}
	for _, k := range sortedKeys(p.textures) {
		texFn(k, p.textures[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
