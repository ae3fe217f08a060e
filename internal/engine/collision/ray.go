package collision

import (
	gomath "math"

	"github.com/Faultbox/touchpaint/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners, handling swapped axes.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float32) AABB {
	e := math.Vec3{X: d, Y: d, Z: d}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ClosestPoint clamps p to the box.
func (b AABB) ClosestPoint(p math.Vec3) math.Vec3 {
	return math.Vec3{
		X: math.Clamp(p.X, b.Min.X, b.Max.X),
		Y: math.Clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: math.Clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// It returns the entry distance and the outward normal of the entry face.
// A ray starting inside the box reports no hit.
func (r Ray) IntersectAABB(box AABB) (t float32, normal math.Vec3, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	axis := -1
	var sign float32

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, math.Vec3{}, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		s := float32(-1) // entering through the min face
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = s
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 || tmin < 0 || axis < 0 {
		return 0, math.Vec3{}, false
	}

	var n [3]float32
	n[axis] = sign
	return tmin, math.Vec3{X: n[0], Y: n[1], Z: n[2]}, true
}

// IntersectPlane intersects the ray with a plane, from either side.
func (r Ray) IntersectPlane(pl math.Plane) (t float32, ok bool) {
	denom := r.Direction.Dot(pl.Normal)
	if gomath.Abs(float64(denom)) < 1e-6 {
		return 0, false // parallel
	}
	t = -pl.SignedDistance(r.Origin) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
