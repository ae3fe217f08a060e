// Package collision provides a small collision world with layer-filtered
// sphere casts, used by touch sources to find paintable geometry.
package collision

import (
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/pkg/math"
	"go.uber.org/zap"
)

// Layer is a collider classification bit.
type Layer uint32

const (
	// LayerDefault is solid geometry that does not take paint.
	LayerDefault Layer = 1 << iota
	// LayerPaintable is geometry bound to a paint surface.
	LayerPaintable
)

// AllLayers matches every collider.
const AllLayers = ^Layer(0)

// Handle identifies a collider in a World. The zero handle is never issued.
type Handle uint32

// Collider is a shape registered in a World.
type Collider struct {
	Handle Handle
	Name   string
	Layer  Layer
	Shape  Shape
}

// Probe describes a sphere cast.
type Probe struct {
	Origin      math.Vec3
	Direction   math.Vec3
	Radius      float32
	MaxDistance float32
	Mask        Layer
}

// Hit is the result of a successful probe.
type Hit struct {
	Point    math.Vec3 // contact point on the collider surface
	Normal   math.Vec3 // surface normal facing the probe
	Distance float32   // distance travelled by the sphere centre
	Collider Handle
	Layer    Layer
}

// World holds colliders and answers sphere casts.
type World struct {
	colliders []Collider
	next      Handle
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// Add registers a shape and returns its handle.
func (w *World) Add(name string, layer Layer, shape Shape) Handle {
	w.next++
	w.colliders = append(w.colliders, Collider{
		Handle: w.next,
		Name:   name,
		Layer:  layer,
		Shape:  shape,
	})
	logger.Debug("collider added",
		zap.String("name", name),
		zap.Uint32("handle", uint32(w.next)),
		zap.Uint32("layer", uint32(layer)))
	return w.next
}

// Remove unregisters a collider. Unknown handles are ignored.
func (w *World) Remove(h Handle) {
	for i, c := range w.colliders {
		if c.Handle == h {
			w.colliders = append(w.colliders[:i], w.colliders[i+1:]...)
			return
		}
	}
}

// Collider returns the collider with handle h.
func (w *World) Collider(h Handle) (Collider, bool) {
	for _, c := range w.colliders {
		if c.Handle == h {
			return c, true
		}
	}
	return Collider{}, false
}

// Len returns the number of colliders.
func (w *World) Len() int {
	return len(w.colliders)
}

// SphereCast sweeps a sphere along the probe and returns the nearest hit
// among colliders whose layer matches the mask.
func (w *World) SphereCast(p Probe) (Hit, bool) {
	dir := p.Direction.Normalize()
	if dir == (math.Vec3{}) || p.MaxDistance <= 0 {
		return Hit{}, false
	}
	r := Ray{Origin: p.Origin, Direction: dir}

	var best Hit
	found := false
	for _, c := range w.colliders {
		if c.Layer&p.Mask == 0 {
			continue
		}
		point, normal, dist, ok := c.Shape.sweep(r, p.Radius, p.MaxDistance)
		if !ok || (found && dist >= best.Distance) {
			continue
		}
		best = Hit{Point: point, Normal: normal, Distance: dist, Collider: c.Handle, Layer: c.Layer}
		found = true
	}
	return best, found
}
