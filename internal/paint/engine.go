package paint

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/internal/logger"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// ErrNotInitialized is returned by Paint and Decay for a surface that has
// not been through Initialize.
var ErrNotInitialized = errors.New("paint: surface not initialized")

// Engine owns the shared paint programs and a reusable batch. It is not
// safe for concurrent use; drive it from the render thread.
type Engine struct {
	backend gpu.Backend
	cfg     Config

	stamp  gpu.Program
	extend gpu.Program
	decay  gpu.Program
	batch  gpu.Batch
}

// NewEngine compiles the paint programs on backend.
func NewEngine(backend gpu.Backend, cfg Config) (*Engine, error) {
	if cfg.TextureSize <= 0 {
		return nil, fmt.Errorf("paint: invalid texture size %d", cfg.TextureSize)
	}

	e := &Engine{backend: backend, cfg: cfg}
	var err error
	if e.stamp, err = backend.NewProgram(gpu.ProgramStamp); err != nil {
		return nil, fmt.Errorf("stamp program: %w", err)
	}
	if e.extend, err = backend.NewProgram(gpu.ProgramExtend); err != nil {
		return nil, fmt.Errorf("extend program: %w", err)
	}
	if e.decay, err = backend.NewProgram(gpu.ProgramDecay); err != nil {
		return nil, fmt.Errorf("decay program: %w", err)
	}
	e.batch = backend.NewBatch("paint")

	logger.Info("paint engine ready",
		zap.String("backend", backend.Name()),
		zap.Int("texture_size", cfg.TextureSize))
	return e, nil
}

// Config returns the engine defaults.
func (e *Engine) Config() Config { return e.cfg }

// NewSurface creates a surface with the engine defaults. It still needs
// Initialize before it can be painted.
func (e *Engine) NewSurface(h Handle, name string, r gpu.Renderable) *Surface {
	return NewSurface(h, name, r, e.cfg)
}

// Initialize allocates or clears the surface textures and rasterises the uv
// island map. Calling it again wipes all paint.
//
// Malformed uvs are not an error: the surface is marked degraded, the island
// pass is skipped and painting continues without seam dilation.
func (e *Engine) Initialize(s *Surface) error {
	if s == nil || s.renderable == nil || s.renderable.Mesh() == nil {
		return errors.New("paint: surface has no mesh")
	}
	if s.size <= 0 {
		s.size = e.cfg.TextureSize
	}
	if err := e.allocate(s); err != nil {
		return err
	}

	m := s.renderable.Mesh()
	s.degraded = false
	if err := m.Validate(); err != nil {
		s.degraded = true
		logger.Warn("malformed uvs, seam dilation disabled",
			zap.Uint32("surface", uint32(s.handle)),
			zap.String("name", s.name),
			zap.Error(err))
	}

	b := e.batch
	for _, l := range Layers {
		b.SetTarget(s.Texture(l))
		b.Clear(gpu.Transparent)
	}
	if !s.degraded {
		b.SetTarget(s.islands)
		b.DrawMesh(s.renderable, e.stamp, gpu.NewParams().SetFloat(gpu.ParamPrepareUV, 1))
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("initializing surface %d: %w", s.handle, err)
	}

	s.initialized = true
	logger.Debug("surface initialized",
		zap.Uint32("surface", uint32(s.handle)),
		zap.String("name", s.name),
		zap.Int("size", s.size),
		zap.Bool("degraded", s.degraded))
	return nil
}

// allocate creates the four textures, reusing existing ones of the right size.
func (e *Engine) allocate(s *Surface) error {
	if s.hasTextures() {
		if w, _ := s.mask.Size(); w == s.size {
			return nil
		}
		e.Release(s)
	}

	var err error
	rgba := func() gpu.Texture {
		if err != nil {
			return nil
		}
		var t gpu.Texture
		t, err = e.backend.NewTexture(s.size, s.size, gpu.RGBA32F)
		return t
	}
	s.mask = rgba()
	s.extend = rgba()
	s.support = rgba()
	if err == nil {
		s.islands, err = e.backend.NewTexture(s.size, s.size, gpu.R32F)
	}
	if err != nil {
		e.Release(s)
		return fmt.Errorf("allocating textures for surface %d: %w", s.handle, err)
	}
	return nil
}

// Paint stamps brush at a world-space point and propagates the result to
// support and extend. Coverage never decreases.
func (e *Engine) Paint(s *Surface, point math.Vec3, brush Brush) error {
	if !e.ready(s, "paint") {
		return ErrNotInitialized
	}

	b := e.batch
	b.SetTarget(s.mask)
	b.DrawMesh(s.renderable, e.stamp, brush.params(gpu.NewParams()).
		SetFloat(gpu.ParamPrepareUV, 0).
		SetVec3(gpu.ParamPosition, point).
		SetTexture(gpu.ParamMainTex, s.support))
	b.Blit(s.mask, s.support, nil, nil)
	b.Blit(s.mask, s.extend, e.extend, e.extendParams(s))

	if err := b.Flush(); err != nil {
		return fmt.Errorf("painting surface %d: %w", s.handle, err)
	}
	return nil
}

// Decay fades coverage by elapsed seconds over the surface decay time, then
// refreshes extend so it stays seam-extended. Coverage never increases and
// an empty surface stays empty.
func (e *Engine) Decay(s *Surface, elapsed float32) error {
	if !e.ready(s, "decay") {
		return ErrNotInitialized
	}
	if elapsed <= 0 && s.DecayTime > 0 {
		return nil
	}

	b := e.batch
	b.Blit(s.support, s.extend, e.decay, gpu.NewParams().
		SetFloat(gpu.ParamDecayTime, s.DecayTime).
		SetFloat(gpu.ParamElapsed, max(elapsed, 0)))
	b.Blit(s.extend, s.support, nil, nil)
	b.Blit(s.support, s.extend, e.extend, e.extendParams(s))

	if err := b.Flush(); err != nil {
		return fmt.Errorf("decaying surface %d: %w", s.handle, err)
	}
	return nil
}

// Release frees the surface textures. The surface must be initialised again
// before use.
func (e *Engine) Release(s *Surface) {
	for _, t := range []gpu.Texture{s.mask, s.islands, s.extend, s.support} {
		if t != nil {
			e.backend.DeleteTexture(t)
		}
	}
	s.mask, s.islands, s.extend, s.support = nil, nil, nil, nil
	s.initialized = false
}

// Snapshot reads a surface layer back to the CPU.
func (e *Engine) Snapshot(s *Surface, l Layer) (*gpu.Pixels, error) {
	t := s.Texture(l)
	if t == nil {
		return nil, ErrNotInitialized
	}
	px, err := e.backend.ReadTexture(t)
	if err != nil {
		return nil, fmt.Errorf("reading %v of surface %d: %w", l, s.handle, err)
	}
	return px, nil
}

func (e *Engine) extendParams(s *Surface) *gpu.Params {
	return gpu.NewParams().
		SetTexture(gpu.ParamIslands, s.islands).
		SetFloat(gpu.ParamOffset, s.ExtendOffset)
}

func (e *Engine) ready(s *Surface, op string) bool {
	if s != nil && s.initialized {
		return true
	}
	var h uint32
	if s != nil {
		h = uint32(s.handle)
	}
	logger.Warn("surface not initialized, ignoring "+op, zap.Uint32("surface", h))
	return false
}
