package collision

import (
	gomath "math"

	"github.com/Faultbox/touchpaint/pkg/math"
)

// Shape is a collider geometry that can be swept against by a sphere.
type Shape interface {
	// Bounds returns the world-space bounding box.
	Bounds() AABB
	// sweep casts a sphere of radius along r and returns the first contact
	// within maxDist. Casts that start overlapping the shape do not hit.
	sweep(r Ray, radius, maxDist float32) (contact, normal math.Vec3, dist float32, ok bool)
}

// Box is an axis-aligned box collider.
type Box struct {
	AABB
}

// Bounds implements Shape.
func (b Box) Bounds() AABB { return b.AABB }

func (b Box) sweep(r Ray, radius, maxDist float32) (math.Vec3, math.Vec3, float32, bool) {
	// Sphere vs box is ray vs the box grown by the radius. Corners are
	// treated as square, which is accurate enough for wall probes.
	t, n, ok := r.IntersectAABB(b.Expand(radius))
	if !ok || t > maxDist {
		return math.Vec3{}, math.Vec3{}, 0, false
	}
	contact := b.ClosestPoint(r.At(t))
	return contact, n, t, true
}

// Quad is a two-sided rectangle collider. In its local frame it spans
// [-Width/2, Width/2] x [-Height/2, Height/2] on the XY plane and faces +Z,
// the same layout as mesh.Quad.
type Quad struct {
	Center   math.Vec3
	Rotation math.Quat
	Width    float32
	Height   float32
}

// Normal returns the world-space front normal.
func (q Quad) Normal() math.Vec3 {
	return q.Rotation.Rotate(math.Vec3{Z: 1})
}

// Bounds implements Shape.
func (q Quad) Bounds() AABB {
	hw, hh := q.Width/2, q.Height/2
	corners := [4]math.Vec3{
		{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh},
	}
	b := AABB{Min: q.Center, Max: q.Center}
	for _, c := range corners {
		p := q.Center.Add(q.Rotation.Rotate(c))
		b = NewAABB(
			math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)},
			math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)},
		)
	}
	return b
}

// contains reports whether a point on the quad plane lies inside the rectangle.
func (q Quad) contains(p math.Vec3) bool {
	local := q.Rotation.Conjugate().Rotate(p.Sub(q.Center))
	return gomath.Abs(float64(local.X)) <= float64(q.Width/2) &&
		gomath.Abs(float64(local.Y)) <= float64(q.Height/2)
}

func (q Quad) sweep(r Ray, radius, maxDist float32) (math.Vec3, math.Vec3, float32, bool) {
	pl := math.NewPlane(q.Normal(), q.Center)
	d0 := pl.SignedDistance(r.Origin)
	if gomath.Abs(float64(d0)) <= float64(radius) {
		return math.Vec3{}, math.Vec3{}, 0, false // starts overlapping the plane
	}

	// Face the side the cast comes from.
	n := pl.Normal
	if d0 < 0 {
		n = n.Neg()
		d0 = -d0
	}
	approach := -r.Direction.Dot(n)
	if approach <= 1e-6 {
		return math.Vec3{}, math.Vec3{}, 0, false // moving away or parallel
	}

	t := (d0 - radius) / approach
	if t > maxDist {
		return math.Vec3{}, math.Vec3{}, 0, false
	}
	contact := r.At(t).Sub(n.Scale(radius))
	if !q.contains(contact) {
		return math.Vec3{}, math.Vec3{}, 0, false
	}
	return contact, n, t, true
}
