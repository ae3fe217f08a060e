// Package mesh provides indexed triangle meshes with a UV unwrap, the
// island labelling the paint engine needs, and a few procedural builders.
package mesh

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/touchpaint/pkg/math"
)

var (
	// ErrNoUVs means the mesh has no texture coordinates for some vertices.
	ErrNoUVs = errors.New("mesh: missing texture coordinates")
	// ErrUVRange means a texture coordinate lies outside [0, 1] or is NaN.
	ErrUVRange = errors.New("mesh: texture coordinate out of range")
	// ErrIndex means an index references a missing vertex.
	ErrIndex = errors.New("mesh: index out of range")
	// ErrNotTriangles means the index count is not a multiple of three.
	ErrNotTriangles = errors.New("mesh: index count is not a multiple of 3")
)

// Mesh holds indexed triangle geometry in model space.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Indices   []uint32

	islands     []uint32
	islandCount int
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c uint32) {
	return m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
}

// Validate checks that the mesh can be painted: indexed triangles with a
// texture coordinate in [0, 1] for every vertex.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return ErrNotTriangles
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("%w: index %d = %d, %d vertices", ErrIndex, i, idx, len(m.Positions))
		}
	}
	if len(m.UVs) != len(m.Positions) {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrNoUVs, len(m.UVs), len(m.Positions))
	}
	for i, uv := range m.UVs {
		if gomath.IsNaN(float64(uv.X)) || gomath.IsNaN(float64(uv.Y)) || !uv.In01() {
			return fmt.Errorf("%w: vertex %d has (%g, %g)", ErrUVRange, i, uv.X, uv.Y)
		}
	}
	return nil
}

// Bounds computes the model-space bounding box.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
	for _, p := range m.Positions {
		b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	}
	return b
}

// Islands labels every triangle with the id of its UV island. Ids start at
// 1 so that 0 can mean "no geometry" in an island texture. Triangles are in
// the same island when they share a corner with identical UV coordinates.
// The result is cached; call Invalidate after editing the mesh.
func (m *Mesh) Islands() (ids []uint32, count int) {
	if m.islands != nil {
		return m.islands, m.islandCount
	}

	tris := m.TriangleCount()
	parent := make([]int, tris)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	// First triangle seen at each UV corner
	seen := make(map[math.Vec2]int)
	for t := 0; t < tris; t++ {
		for k := 0; k < 3; k++ {
			idx := m.Indices[t*3+k]
			if int(idx) >= len(m.UVs) {
				continue
			}
			uv := m.UVs[idx]
			if other, ok := seen[uv]; ok {
				union(t, other)
			} else {
				seen[uv] = t
			}
		}
	}

	// Compact roots to 1..count in triangle order
	label := make(map[int]uint32)
	ids = make([]uint32, tris)
	for t := 0; t < tris; t++ {
		r := find(t)
		id, ok := label[r]
		if !ok {
			id = uint32(len(label) + 1)
			label[r] = id
		}
		ids[t] = id
	}

	m.islands = ids
	m.islandCount = len(label)
	return ids, m.islandCount
}

// Invalidate drops cached derived data.
func (m *Mesh) Invalidate() {
	m.islands = nil
	m.islandCount = 0
}
