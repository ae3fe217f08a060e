// Package glgpu implements the gpu backend on OpenGL 4.1 core. Every texture
// owns a framebuffer; mesh draws rasterise geometry in uv space and blits
// run a fullscreen triangle through a fragment program.
//
// All calls must come from the thread that owns the GL context.
package glgpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/internal/engine/gpu/glgpu/shaders"
	"github.com/Faultbox/touchpaint/internal/engine/mesh"
	"github.com/Faultbox/touchpaint/internal/logger"
)

// ErrForeignTexture is returned for textures created by another backend or
// already deleted.
var ErrForeignTexture = errors.New("glgpu: texture not owned by this backend")

// Backend is the OpenGL backend.
type Backend struct {
	programs map[string]*Program
	copyProg *Program
	emptyVAO uint32
	meshes   map[*mesh.Mesh]*meshBuffers
	textures map[*Texture]struct{}
	scratch  map[[2]int32]*Texture
	log      *zap.Logger
}

// New creates a backend. A GL context must be current.
func New() (*Backend, error) {
	b := &Backend{
		programs: make(map[string]*Program),
		meshes:   make(map[*mesh.Mesh]*meshBuffers),
		textures: make(map[*Texture]struct{}),
		scratch:  make(map[[2]int32]*Texture),
		log:      logger.Named("glgpu"),
	}

	cp, err := newProgram("copy", shaders.BlitVertexShader, shaders.CopyFragmentShader, true)
	if err != nil {
		return nil, err
	}
	b.copyProg = cp

	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &b.emptyVAO)

	b.log.Info("OpenGL backend ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return b, nil
}

// Name implements gpu.Backend.
func (b *Backend) Name() string { return "opengl" }

// NewTexture implements gpu.Backend.
func (b *Backend) NewTexture(width, height int, f gpu.Format) (gpu.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glgpu: invalid texture size %dx%d", width, height)
	}
	t, err := newTexture(int32(width), int32(height), f)
	if err != nil {
		return nil, fmt.Errorf("creating %v texture: %w", f, err)
	}
	b.textures[t] = struct{}{}
	return t, nil
}

// DeleteTexture implements gpu.Backend.
func (b *Backend) DeleteTexture(t gpu.Texture) {
	gt, ok := t.(*Texture)
	if !ok {
		return
	}
	if _, live := b.textures[gt]; !live {
		return
	}
	delete(b.textures, gt)
	gt.destroy()
}

// NewProgram implements gpu.Backend. Programs are compiled once and shared.
func (b *Backend) NewProgram(name string) (gpu.Program, error) {
	if p, ok := b.programs[name]; ok {
		return p, nil
	}

	var (
		p   *Program
		err error
	)
	switch name {
	case gpu.ProgramStamp:
		p, err = newProgram(name, shaders.PaintVertexShader, shaders.StampFragmentShader, false)
	case gpu.ProgramExtend:
		p, err = newProgram(name, shaders.BlitVertexShader, shaders.ExtendFragmentShader, true)
	case gpu.ProgramDecay:
		p, err = newProgram(name, shaders.BlitVertexShader, shaders.DecayFragmentShader, true)
	default:
		return nil, fmt.Errorf("%w: %q", gpu.ErrUnknownProgram, name)
	}
	if err != nil {
		return nil, err
	}
	b.programs[name] = p
	return p, nil
}

// NewBatch implements gpu.Backend.
func (b *Backend) NewBatch(name string) gpu.Batch {
	return &Batch{name: name, backend: b}
}

// ReadTexture implements gpu.Backend.
func (b *Backend) ReadTexture(t gpu.Texture) (*gpu.Pixels, error) {
	gt, err := b.own(t)
	if err != nil {
		return nil, err
	}
	return gt.readPixels(), nil
}

// Destroy releases every GL object created by the backend.
func (b *Backend) Destroy() {
	for t := range b.textures {
		t.destroy()
	}
	for _, t := range b.scratch {
		t.destroy()
	}
	for _, mb := range b.meshes {
		mb.destroy()
	}
	for _, p := range b.programs {
		gl.DeleteProgram(p.id)
	}
	if b.copyProg != nil {
		gl.DeleteProgram(b.copyProg.id)
	}
	if b.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &b.emptyVAO)
	}
	b.textures = make(map[*Texture]struct{})
	b.scratch = make(map[[2]int32]*Texture)
	b.meshes = make(map[*mesh.Mesh]*meshBuffers)
	b.programs = make(map[string]*Program)
}

func (b *Backend) own(t gpu.Texture) (*Texture, error) {
	gt, ok := t.(*Texture)
	if !ok || gt == nil {
		return nil, ErrForeignTexture
	}
	if _, live := b.textures[gt]; !live {
		return nil, ErrForeignTexture
	}
	return gt, nil
}

// buffers returns the cached buffers for m, uploading on first use.
func (b *Backend) buffers(m *mesh.Mesh) *meshBuffers {
	mb, ok := b.meshes[m]
	if !ok {
		mb = upload(m)
		b.meshes[m] = mb
	}
	return mb
}

// scratchFor returns a private texture the size and format of t, used to
// break read/write feedback when a blit targets its own source.
func (b *Backend) scratchFor(t *Texture) (*Texture, error) {
	key := [2]int32{t.width, t.height}
	if s, ok := b.scratch[key]; ok && s.format == t.format {
		return s, nil
	}
	s, err := newTexture(t.width, t.height, t.format)
	if err != nil {
		return nil, err
	}
	if old, ok := b.scratch[key]; ok {
		delete(b.textures, old)
		old.destroy()
	}
	b.scratch[key] = s
	b.textures[s] = struct{}{}
	return s, nil
}
