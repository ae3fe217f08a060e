// Package paint stamps, seam-extends and decays contact marks in the uv
// space of paintable meshes.
//
// A Surface owns four textures of equal size. mask receives the latest stamp,
// support holds the accumulated paint, extend is support with colour bled
// across uv seams and is what gets displayed, and uvIslands marks which
// texels belong to geometry. Coverage is the alpha channel.
package paint

import (
	"fmt"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
)

// Handle identifies a paintable surface.
type Handle uint32

// Layer selects one of a surface's textures.
type Layer int

const (
	LayerMask Layer = iota
	LayerIslands
	LayerExtend
	LayerSupport
)

func (l Layer) String() string {
	switch l {
	case LayerMask:
		return "mask"
	case LayerIslands:
		return "uv_islands"
	case LayerExtend:
		return "extend"
	case LayerSupport:
		return "support"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Layers lists every layer in texture order.
var Layers = []Layer{LayerMask, LayerIslands, LayerExtend, LayerSupport}

// Surface is a mesh instance that can receive paint.
type Surface struct {
	handle     Handle
	name       string
	renderable gpu.Renderable

	// DecayTime is the number of seconds a full-strength mark takes to fade.
	// Zero or less clears marks on the next decay.
	DecayTime float32
	// ExtendOffset is the seam dilation distance in texels.
	ExtendOffset float32

	size    int
	mask    gpu.Texture
	islands gpu.Texture
	extend  gpu.Texture
	support gpu.Texture

	initialized bool
	degraded    bool
}

// NewSurface creates an uninitialised surface for r with settings from cfg.
func NewSurface(h Handle, name string, r gpu.Renderable, cfg Config) *Surface {
	return &Surface{
		handle:       h,
		name:         name,
		renderable:   r,
		DecayTime:    cfg.DecayTime,
		ExtendOffset: cfg.ExtendOffset,
		size:         cfg.TextureSize,
	}
}

func (s *Surface) Handle() Handle             { return s.handle }
func (s *Surface) Name() string               { return s.name }
func (s *Surface) Renderable() gpu.Renderable { return s.renderable }
func (s *Surface) Size() int                  { return s.size }
func (s *Surface) Initialized() bool          { return s.initialized }

// Degraded reports whether the mesh had malformed uvs at initialisation.
// A degraded surface still paints but seam dilation is a plain copy.
func (s *Surface) Degraded() bool { return s.degraded }

// Texture returns the texture backing a layer, or nil before initialisation.
func (s *Surface) Texture(l Layer) gpu.Texture {
	switch l {
	case LayerMask:
		return s.mask
	case LayerIslands:
		return s.islands
	case LayerExtend:
		return s.extend
	case LayerSupport:
		return s.support
	}
	return nil
}

func (s *Surface) hasTextures() bool {
	return s.mask != nil && s.islands != nil && s.extend != nil && s.support != nil
}

// Registry maps handles to surfaces in registration order.
type Registry struct {
	byHandle map[Handle]*Surface
	order    []*Surface
	next     Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byHandle: make(map[Handle]*Surface)}
}

// NextHandle reserves a fresh handle.
func (r *Registry) NextHandle() Handle {
	r.next++
	return r.next
}

// Add registers s, replacing any surface with the same handle.
func (r *Registry) Add(s *Surface) {
	if old, ok := r.byHandle[s.handle]; ok {
		r.removeOrdered(old)
	}
	r.byHandle[s.handle] = s
	r.order = append(r.order, s)
	if s.handle > r.next {
		r.next = s.handle
	}
}

// Remove unregisters a surface and returns it.
func (r *Registry) Remove(h Handle) (*Surface, bool) {
	s, ok := r.byHandle[h]
	if !ok {
		return nil, false
	}
	delete(r.byHandle, h)
	r.removeOrdered(s)
	return s, true
}

// Surface returns the surface for h.
func (r *Registry) Surface(h Handle) (*Surface, bool) {
	s, ok := r.byHandle[h]
	return s, ok
}

// All returns the surfaces in registration order.
func (r *Registry) All() []*Surface {
	return append([]*Surface(nil), r.order...)
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) removeOrdered(s *Surface) {
	for i, o := range r.order {
		if o == s {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
