package mesh

import "github.com/Faultbox/touchpaint/pkg/math"

// Quad builds a width x height rectangle in the local XY plane, centred on
// the origin and facing +Z, with its UVs spanning [uvMin, uvMax].
func Quad(name string, width, height float32, uvMin, uvMax math.Vec2) *Mesh {
	hw, hh := width/2, height/2
	n := math.Vec3{Z: 1}
	return &Mesh{
		Name: name,
		Positions: []math.Vec3{
			{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh},
		},
		Normals: []math.Vec3{n, n, n, n},
		UVs: []math.Vec2{
			{X: uvMin.X, Y: uvMin.Y}, {X: uvMax.X, Y: uvMin.Y},
			{X: uvMax.X, Y: uvMax.Y}, {X: uvMin.X, Y: uvMax.Y},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// SplitQuad builds the same rectangle as Quad but unwrapped as two UV
// islands: the left half maps to u in [0, 0.5-gap/2] and the right half to
// u in [0.5+gap/2, 1]. The vertices on the shared middle edge are duplicated,
// so the halves are continuous in 3D and separated by a gutter of width gap
// in texture space. It is the smallest mesh with a real UV seam.
func SplitQuad(name string, width, height, gap float32) *Mesh {
	hw, hh := width/2, height/2
	n := math.Vec3{Z: 1}
	uL := 0.5 - gap/2
	uR := 0.5 + gap/2
	return &Mesh{
		Name: name,
		Positions: []math.Vec3{
			// left half
			{X: -hw, Y: -hh}, {X: 0, Y: -hh}, {X: 0, Y: hh}, {X: -hw, Y: hh},
			// right half
			{X: 0, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: 0, Y: hh},
		},
		Normals: []math.Vec3{n, n, n, n, n, n, n, n},
		UVs: []math.Vec2{
			{X: 0, Y: 0}, {X: uL, Y: 0}, {X: uL, Y: 1}, {X: 0, Y: 1},
			{X: uR, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: uR, Y: 1},
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3,
			4, 5, 6, 4, 6, 7,
		},
	}
}
