package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
)

// Texture is a float texture with its own framebuffer, so every texture can
// be used as a render target.
type Texture struct {
	id     uint32
	fbo    uint32
	width  int32
	height int32
	format gpu.Format
}

// Size implements gpu.Texture.
func (t *Texture) Size() (int, int) { return int(t.width), int(t.height) }

// Format implements gpu.Texture.
func (t *Texture) Format() gpu.Format { return t.format }

// ID returns the GL texture object.
func (t *Texture) ID() uint32 { return t.id }

func newTexture(width, height int32, f gpu.Format) (*Texture, error) {
	t := &Texture{width: width, height: height, format: f}

	internal, format := int32(gl.RGBA32F), uint32(gl.RGBA)
	if f == gpu.R32F {
		internal, format = gl.R32F, gl.RED
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, width, height, 0, format, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.id, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.destroy()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	// Fresh storage is undefined; start transparent.
	t.bind()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return t, nil
}

// bind makes the texture the current render target.
func (t *Texture) bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)
}

// readPixels reads the texture back as RGBA floats.
func (t *Texture) readPixels() *gpu.Pixels {
	px := gpu.NewPixels(int(t.width), int(t.height))
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.FLOAT, gl.Ptr(&px.Data[0]))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return px
}

func (t *Texture) destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
