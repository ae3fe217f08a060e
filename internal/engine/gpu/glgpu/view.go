package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/internal/engine/gpu/glgpu/shaders"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// Viewer draws paintable objects in 3D with their paint composited over a
// flat base colour. It renders to the default framebuffer.
type Viewer struct {
	backend *Backend
	program *Program

	BaseColor   gpu.Color
	FogColor    math.Vec3
	FogDistance float32
}

// NewViewer compiles the preview program.
func NewViewer(b *Backend) (*Viewer, error) {
	p, err := newProgram("view", shaders.ViewVertexShader, shaders.ViewFragmentShader, false)
	if err != nil {
		return nil, fmt.Errorf("view shader: %w", err)
	}
	return &Viewer{
		backend:     b,
		program:     p,
		BaseColor:   gpu.Color{R: 0.55, G: 0.55, B: 0.6, A: 1},
		FogColor:    math.Vec3{X: 0.05, Y: 0.05, Z: 0.08},
		FogDistance: 12,
	}, nil
}

// Begin clears the default framebuffer and sets per-frame state.
func (v *Viewer) Begin(width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(v.FogColor.X, v.FogColor.Y, v.FogColor.Z, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders r with paint as its overlay. A nil paint texture draws the
// base colour only.
func (v *Viewer) Draw(viewProj math.Mat4, r gpu.Renderable, paint gpu.Texture) error {
	m := r.Mesh()
	if m == nil {
		return nil
	}

	gl.UseProgram(v.program.id)
	model := r.Model()
	gl.UniformMatrix4fv(v.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.UniformMatrix4fv(v.program.Uniform("uModel"), 1, false, model.Ptr())
	gl.Uniform4f(v.program.Uniform("uBaseColor"), v.BaseColor.R, v.BaseColor.G, v.BaseColor.B, v.BaseColor.A)
	gl.Uniform3f(v.program.Uniform("uFogColor"), v.FogColor.X, v.FogColor.Y, v.FogColor.Z)
	gl.Uniform1f(v.program.Uniform("uFogDistance"), v.FogDistance)

	gl.ActiveTexture(gl.TEXTURE0)
	if paint != nil {
		t, err := v.backend.own(paint)
		if err != nil {
			return err
		}
		gl.BindTexture(gl.TEXTURE_2D, t.id)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.Uniform1i(v.program.Uniform("uPaint"), 0)

	v.backend.buffers(m).draw()
	return nil
}

// Destroy releases the preview program.
func (v *Viewer) Destroy() {
	if v.program != nil {
		gl.DeleteProgram(v.program.id)
		v.program = nil
	}
}
