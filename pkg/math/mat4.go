package math

import "math"

// Mat4 is a column-major 4x4 matrix, the layout OpenGL uniforms expect.
// Element (row r, column c) is m[c*4+r]; the translation is m[12:15].
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Perspective returns a right-handed projection to OpenGL clip space.
// fovY is the vertical field of view in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// LookAt returns the view matrix of an eye looking at center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	m := Identity()
	for i, row := range [3]Vec3{s, u, f.Neg()} {
		m[i], m[4+i], m[8+i] = row.X, row.Y, row.Z
		m[12+i] = -row.Dot(eye)
	}
	return m
}

// Compose builds the transform that scales, then rotates, then translates.
func Compose(position Vec3, rotation Quat, scale Vec3) Mat4 {
	rotation = rotation.Normalize()
	axes := [3]Vec3{
		rotation.Rotate(Vec3{X: scale.X}),
		rotation.Rotate(Vec3{Y: scale.Y}),
		rotation.Rotate(Vec3{Z: scale.Z}),
	}

	var m Mat4
	for c, a := range axes {
		m[c*4], m[c*4+1], m[c*4+2] = a.X, a.Y, a.Z
	}
	m[12], m[13], m[14], m[15] = position.X, position.Y, position.Z, 1
	return m
}

// Mul returns m * other, so other is applied first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * other[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformVec3 transforms a point (w = 1), dividing by the resulting w
// when the matrix is projective.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v.X + m[4+r]*v.Y + m[8+r]*v.Z + m[12+r]
	}
	if w := out[3]; w != 0 && w != 1 {
		return Vec3{out[0] / w, out[1] / w, out[2] / w}
	}
	return Vec3{out[0], out[1], out[2]}
}

// Ptr returns a pointer to the first element for gl.UniformMatrix4fv.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
