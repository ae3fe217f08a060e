// Package math provides math types and functions for game development.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Up is the world up axis.
var Up = Vec3{0, 1, 0}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp interpolates linearly from v to other.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).Scale(t))
}

// Array returns the components as an array (for GL uniforms).
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// AngleDeg returns the unsigned angle between a and b in degrees.
func AngleDeg(a, b Vec3) float32 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return float32(math.Acos(float64(c)) * 180 / math.Pi)
}

// MoveTowards moves current toward target by at most maxStep.
// It never overshoots the target.
func MoveTowards(current, target Vec3, maxStep float32) Vec3 {
	delta := target.Sub(current)
	dist := delta.Length()
	if dist <= maxStep || dist == 0 {
		return target
	}
	return current.Add(delta.Scale(maxStep / dist))
}

// SmoothDamp eases current toward target with a critically damped spring.
// velocity carries state between calls and is updated in place.
func SmoothDamp(current, target Vec3, velocity *Vec3, smoothTime, dt float32) Vec3 {
	if smoothTime < 0.0001 {
		smoothTime = 0.0001
	}
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current.Sub(target)
	temp := velocity.Add(change.Scale(omega)).Scale(dt)
	*velocity = velocity.Sub(temp.Scale(omega)).Scale(exp)
	out := target.Add(change.Add(temp).Scale(exp))

	// Prevent overshooting
	if target.Sub(current).Dot(out.Sub(target)) > 0 {
		out = target
		*velocity = Vec3{}
	}
	return out
}

// Plane is an infinite plane through Point with unit Normal.
type Plane struct {
	Point  Vec3
	Normal Vec3
}

// NewPlane creates a plane from a normal and a point on it.
func NewPlane(normal, point Vec3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// SignedDistance returns the signed distance from p to the plane.
func (pl Plane) SignedDistance(p Vec3) float32 {
	return p.Sub(pl.Point).Dot(pl.Normal)
}

// ClosestPoint projects p onto the plane.
func (pl Plane) ClosestPoint(p Vec3) Vec3 {
	return p.Sub(pl.Normal.Scale(pl.SignedDistance(p)))
}
