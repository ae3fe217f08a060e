// Package scene builds walkable scenes whose paintable geometry is bound to
// paint surfaces. A Scene owns the collision world the touch sources probe
// and the surface registry the paint engine and decay scheduler work on.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/engine/collision"
	"github.com/Faultbox/touchpaint/internal/engine/mesh"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/internal/paint"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// Object is a placed mesh. Paintable objects carry a collider and a surface.
type Object struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	mesh     *mesh.Mesh
	collider collision.Handle
	surface  *paint.Surface
}

// Mesh implements gpu.Renderable.
func (o *Object) Mesh() *mesh.Mesh { return o.mesh }

// Model implements gpu.Renderable.
func (o *Object) Model() math.Mat4 {
	return math.Compose(o.Position, o.Rotation, o.Scale)
}

// Collider returns the collider bound to the object.
func (o *Object) Collider() collision.Handle { return o.collider }

// Surface returns the paint surface, or nil for non-paintable objects.
func (o *Object) Surface() *paint.Surface { return o.surface }

// Initializer prepares surfaces for painting. paint.Engine implements it.
type Initializer interface {
	Initialize(s *paint.Surface) error
}

// Scene manages colliders, objects and their paint surfaces.
type Scene struct {
	cfg        paint.Config
	world      *collision.World
	surfaces   *paint.Registry
	objects    []*Object
	byCollider map[collision.Handle]*Object
}

// New creates an empty scene. cfg supplies the per-surface paint settings.
func New(cfg paint.Config) *Scene {
	return &Scene{
		cfg:        cfg,
		world:      collision.NewWorld(),
		surfaces:   paint.NewRegistry(),
		byCollider: make(map[collision.Handle]*Object),
	}
}

// World returns the collision world.
func (s *Scene) World() *collision.World { return s.world }

// Registry returns the surface registry.
func (s *Scene) Registry() *paint.Registry { return s.surfaces }

// Objects returns the objects in insertion order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Bounds returns the world-space box around every object.
func (s *Scene) Bounds() mesh.Bounds {
	b := mesh.Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
	for _, o := range s.objects {
		model := o.Model()
		for _, p := range o.mesh.Positions {
			w := model.TransformVec3(p)
			b.Min = math.Vec3{X: min(b.Min.X, w.X), Y: min(b.Min.Y, w.Y), Z: min(b.Min.Z, w.Z)}
			b.Max = math.Vec3{X: max(b.Max.X, w.X), Y: max(b.Max.Y, w.Y), Z: max(b.Max.Z, w.Z)}
		}
	}
	return b
}

// Surfaces returns the paint surfaces in insertion order.
func (s *Scene) Surfaces() []*paint.Surface {
	return s.surfaces.All()
}

// AddWall places a paintable rectangle centred on center and facing normal.
// m must be laid out like mesh.Quad (XY plane, facing +Z) with the same
// width and height; nil builds a plain quad.
func (s *Scene) AddWall(name string, center, normal math.Vec3, width, height float32, m *mesh.Mesh) *Object {
	if m == nil {
		m = mesh.Quad(name, width, height, math.Vec2{}, math.Vec2{X: 1, Y: 1})
	}
	// LookRotation maps -Z to its argument, so +Z ends up on normal.
	rot := math.LookRotation(normal.Neg(), math.Up)

	o := &Object{
		Name:     name,
		Position: center,
		Rotation: rot,
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		mesh:     m,
	}
	o.collider = s.world.Add(name, collision.LayerPaintable, collision.Quad{
		Center:   center,
		Rotation: rot,
		Width:    width,
		Height:   height,
	})
	o.surface = paint.NewSurface(s.surfaces.NextHandle(), name, o, s.cfg)
	s.surfaces.Add(o.surface)

	s.objects = append(s.objects, o)
	s.byCollider[o.collider] = o
	return o
}

// AddBlocker places solid, non-paintable geometry. Touch probes ignore it.
func (s *Scene) AddBlocker(name string, box collision.AABB) collision.Handle {
	return s.world.Add(name, collision.LayerDefault, collision.Box{AABB: box})
}

// Deactivator stops periodic work on a surface. paint.Scheduler implements it.
type Deactivator interface {
	Deactivate(surface *paint.Surface)
}

// Remove drops an object with its collider and surface, and deactivates the
// surface on d when d is non-nil. The caller releases the surface textures.
func (s *Scene) Remove(o *Object, d Deactivator) {
	s.world.Remove(o.collider)
	delete(s.byCollider, o.collider)
	if o.surface != nil {
		s.surfaces.Remove(o.surface.Handle())
		if d != nil {
			d.Deactivate(o.surface)
		}
	}
	for i, other := range s.objects {
		if other == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
}

// Object returns the first object with the given name.
func (s *Scene) Object(name string) (*Object, bool) {
	for _, o := range s.objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Surface resolves the paint surface bound to a collider.
func (s *Scene) Surface(h collision.Handle) (*paint.Surface, bool) {
	o, ok := s.byCollider[h]
	if !ok || o.surface == nil {
		return nil, false
	}
	return o.surface, true
}

// SphereCast probes the collision world.
func (s *Scene) SphereCast(p collision.Probe) (collision.Hit, bool) {
	return s.world.SphereCast(p)
}

// Initialize prepares every surface for painting.
func (s *Scene) Initialize(init Initializer) error {
	for _, surface := range s.surfaces.All() {
		if err := init.Initialize(surface); err != nil {
			return fmt.Errorf("initializing surface %q: %w", surface.Name(), err)
		}
	}
	logger.Info("scene ready",
		zap.Int("surfaces", s.surfaces.Len()),
		zap.Int("colliders", s.world.Len()))
	return nil
}
