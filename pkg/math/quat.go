package math

import "math"

// Quat is a rotation quaternion with scalar part W.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the rotation that does nothing.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle rotates by angle radians about a unit axis,
// counter-clockwise when looking down the axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	sin, cos := math.Sincos(float64(angle) / 2)
	v := axis.Scale(float32(sin))
	return Quat{X: v.X, Y: v.Y, Z: v.Z, W: float32(cos)}
}

// LookRotation returns the rotation that maps the local -Z axis onto forward
// and keeps the local +Y axis as close to up as possible.
// A forward parallel to up falls back to the world Z axis as the reference.
func LookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f == (Vec3{}) {
		return QuatIdentity()
	}
	r := f.Cross(up).Normalize()
	if r == (Vec3{}) {
		r = f.Cross(Vec3{Z: 1}).Normalize()
	}
	return quatFromBasis(r, r.Cross(f), f.Neg())
}

// quatFromBasis converts the orthonormal basis with columns x, y, z to a
// quaternion, pivoting on the largest diagonal term for stability.
func quatFromBasis(x, y, z Vec3) Quat {
	trace := x.X + y.Y + z.Z
	var q Quat
	switch {
	case trace > 0:
		s := 2 * sqrt(trace+1)
		q = Quat{X: (y.Z - z.Y) / s, Y: (z.X - x.Z) / s, Z: (x.Y - y.X) / s, W: s / 4}
	case x.X > y.Y && x.X > z.Z:
		s := 2 * sqrt(1+x.X-y.Y-z.Z)
		q = Quat{X: s / 4, Y: (y.X + x.Y) / s, Z: (z.X + x.Z) / s, W: (y.Z - z.Y) / s}
	case y.Y > z.Z:
		s := 2 * sqrt(1+y.Y-x.X-z.Z)
		q = Quat{X: (y.X + x.Y) / s, Y: s / 4, Z: (z.Y + y.Z) / s, W: (z.X - x.Z) / s}
	default:
		s := 2 * sqrt(1+z.Z-x.X-y.Y)
		q = Quat{X: (z.X + x.Z) / s, Y: (z.Y + y.Z) / s, Z: s / 4, W: (x.Y - y.X) / s}
	}
	return q.Normalize()
}

func sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Normalize returns q scaled to unit length; a near-zero q becomes the
// identity.
func (q Quat) Normalize() Quat {
	l := sqrt(q.Dot(q))
	if l < 1e-4 {
		return QuatIdentity()
	}
	return q.scale(1 / l)
}

func (q Quat) scale(s float32) Quat {
	return Quat{X: q.X * s, Y: q.Y * s, Z: q.Z * s, W: q.W * s}
}

func (q Quat) add(o Quat) Quat {
	return Quat{X: q.X + o.X, Y: q.Y + o.Y, Z: q.Z + o.Z, W: q.W + o.W}
}

// Conjugate returns the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Dot returns the four-component dot product.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Angle returns the angle in degrees between two rotations.
func (q Quat) Angle(o Quat) float32 {
	d := Clamp(float32(math.Abs(float64(q.Dot(o)))), 0, 1)
	return float32(2 * math.Acos(float64(d)) * 180 / math.Pi)
}

// Slerp interpolates along the shorter arc from q to o. t is clamped to
// [0, 1].
func (q Quat) Slerp(o Quat, t float32) Quat {
	t = Clamp(t, 0, 1)
	cos := q.Dot(o)
	if cos < 0 {
		o, cos = o.scale(-1), -cos
	}

	// Nearly parallel: sin(theta) vanishes, so lerp instead.
	if cos > 0.9995 {
		return q.scale(1 - t).add(o.scale(t)).Normalize()
	}

	theta := math.Acos(float64(cos))
	sin := math.Sin(theta)
	a := float32(math.Sin((1-float64(t))*theta) / sin)
	b := float32(math.Sin(float64(t)*theta) / sin)
	return q.scale(a).add(o.scale(b))
}

// Mul returns the rotation q applied after o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}
