// Package soft is a CPU implementation of the gpu backend. It rasterises
// meshes in texture space and runs the paint programs as Go kernels, so the
// paint pipeline can run headless and be tested without a GL context.
package soft

import (
	"errors"
	"fmt"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/internal/logger"
	"go.uber.org/zap"
)

// ErrForeignTexture is returned for textures created by another backend or
// already deleted.
var ErrForeignTexture = errors.New("soft: texture not owned by this backend")

// Backend is the CPU backend.
type Backend struct {
	nextID   uint32
	textures map[uint32]*Texture
}

// New creates a CPU backend.
func New() *Backend {
	return &Backend{textures: make(map[uint32]*Texture)}
}

// Name implements gpu.Backend.
func (b *Backend) Name() string { return "soft" }

// NewTexture implements gpu.Backend. Textures start transparent.
func (b *Backend) NewTexture(width, height int, f gpu.Format) (gpu.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("soft: invalid texture size %dx%d", width, height)
	}
	if f != gpu.RGBA32F && f != gpu.R32F {
		return nil, fmt.Errorf("soft: unsupported format %v", f)
	}
	b.nextID++
	t := newTexture(b.nextID, width, height, f)
	b.textures[t.id] = t
	return t, nil
}

// DeleteTexture implements gpu.Backend.
func (b *Backend) DeleteTexture(t gpu.Texture) {
	st, ok := t.(*Texture)
	if !ok {
		return
	}
	delete(b.textures, st.id)
	st.data = nil
}

// NewProgram implements gpu.Backend.
func (b *Backend) NewProgram(name string) (gpu.Program, error) {
	p, ok := programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", gpu.ErrUnknownProgram, name)
	}
	return p, nil
}

// NewBatch implements gpu.Backend.
func (b *Backend) NewBatch(name string) gpu.Batch {
	return &Batch{name: name, backend: b}
}

// ReadTexture implements gpu.Backend.
func (b *Backend) ReadTexture(t gpu.Texture) (*gpu.Pixels, error) {
	st, err := b.own(t)
	if err != nil {
		return nil, err
	}
	px := gpu.NewPixels(st.width, st.height)
	for y := 0; y < st.height; y++ {
		for x := 0; x < st.width; x++ {
			px.Set(x, y, st.at(x, y))
		}
	}
	return px, nil
}

// Textures returns the number of live textures.
func (b *Backend) Textures() int {
	return len(b.textures)
}

func (b *Backend) own(t gpu.Texture) (*Texture, error) {
	st, ok := t.(*Texture)
	if !ok || st == nil {
		return nil, ErrForeignTexture
	}
	if _, live := b.textures[st.id]; !live {
		logger.Warn("soft: use of deleted texture", zap.Uint32("texture", st.id))
		return nil, ErrForeignTexture
	}
	return st, nil
}
