package glgpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/touchpaint/internal/engine/mesh"
)

// meshBuffers holds the GPU buffers for one mesh.
type meshBuffers struct {
	vao   uint32
	vbo   uint32
	ebo   uint32
	count int32
}

// Vertex layout: position (3), uv (2), island id (1).
const vertexFloats = 6

// upload builds interleaved vertex data with a per-vertex island id. A vertex
// belongs to exactly one island since its uv is shared by all triangles
// that use it.
func upload(m *mesh.Mesh) *meshBuffers {
	islands, _ := m.Islands()
	vertexIsland := make([]float32, len(m.Positions))
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a, b, c := m.Triangle(tri)
		vertexIsland[a] = float32(islands[tri])
		vertexIsland[b] = float32(islands[tri])
		vertexIsland[c] = float32(islands[tri])
	}

	vertices := make([]float32, 0, len(m.Positions)*vertexFloats)
	for i, p := range m.Positions {
		var u, v float32
		if i < len(m.UVs) {
			u, v = m.UVs[i].X, m.UVs[i].Y
		}
		vertices = append(vertices, p.X, p.Y, p.Z, u, v, vertexIsland[i])
	}

	mb := &meshBuffers{count: int32(len(m.Indices))}
	if len(vertices) == 0 || len(m.Indices) == 0 {
		return mb
	}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)

	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(vertexFloats * 4)
	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// TexCoord attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// Island attribute (location 2)
	gl.VertexAttribPointerWithOffset(2, 1, gl.FLOAT, false, stride, 5*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &mb.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return mb
}

func (mb *meshBuffers) draw() {
	if mb.vao == 0 {
		return
	}
	gl.BindVertexArray(mb.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, mb.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (mb *meshBuffers) destroy() {
	if mb.vao != 0 {
		gl.DeleteVertexArrays(1, &mb.vao)
	}
	if mb.vbo != 0 {
		gl.DeleteBuffers(1, &mb.vbo)
	}
	if mb.ebo != 0 {
		gl.DeleteBuffers(1, &mb.ebo)
	}
}
