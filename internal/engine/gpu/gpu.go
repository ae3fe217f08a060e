// Package gpu defines the rendering backend contract used by the paint engine:
// float textures, programs with named parameters, mesh draws in texture space,
// blits and record-then-flush batches.
//
// Two implementations exist: gpu/soft, a CPU reference used by tests and the
// headless simulator, and gpu/glgpu, an OpenGL 4.1 backend.
package gpu

import (
	"errors"

	"github.com/Faultbox/touchpaint/internal/engine/mesh"
	"github.com/Faultbox/touchpaint/pkg/math"
)

// Program names understood by every backend.
const (
	// ProgramStamp draws a mesh in its UV parametrisation. With
	// ParamPrepareUV set it writes island ids instead of paint.
	ProgramStamp = "stamp"
	// ProgramExtend bleeds island colour into the gutter around each island.
	ProgramExtend = "extend_islands"
	// ProgramDecay reduces coverage over elapsed time.
	ProgramDecay = "decay"
)

// Named program parameters.
const (
	ParamPrepareUV = "uPrepareUV"
	ParamPosition  = "uPainterPosition"
	ParamRadius    = "uRadius"
	ParamHardness  = "uHardness"
	ParamStrength  = "uStrength"
	ParamColor     = "uPainterColor"
	ParamMainTex   = "uMainTex"
	ParamIslands   = "uUVIslands"
	ParamOffset    = "uOffsetUV"
	ParamDecayTime = "uDecayTime"
	ParamElapsed   = "uElapsed"
)

var (
	// ErrUnknownProgram is returned by NewProgram for names the backend does not implement.
	ErrUnknownProgram = errors.New("gpu: unknown program")
	// ErrSizeMismatch is returned when a blit mixes textures of different sizes.
	ErrSizeMismatch = errors.New("gpu: texture size mismatch")
	// ErrNoTarget is returned when a draw or clear is recorded without a render target.
	ErrNoTarget = errors.New("gpu: no render target")
)

// Format is a texture storage format.
type Format int

const (
	// RGBA32F stores four float channels per texel.
	RGBA32F Format = iota
	// R32F stores one float channel per texel. Reads return it in R.
	R32F
)

func (f Format) String() string {
	switch f {
	case RGBA32F:
		return "rgba32f"
	case R32F:
		return "r32f"
	default:
		return "unknown"
	}
}

// Color is a linear RGBA colour. A holds paint coverage.
type Color struct {
	R, G, B, A float32
}

// Common colours.
var (
	Transparent = Color{}
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
)

// Max returns the component-wise maximum.
func (c Color) Max(o Color) Color {
	return Color{max(c.R, o.R), max(c.G, o.G), max(c.B, o.B), max(c.A, o.A)}
}

// Texture is a 2D texture owned by a backend.
type Texture interface {
	Size() (width, height int)
	Format() Format
}

// Program is a compiled shader program.
type Program interface {
	Name() string
}

// Renderable is anything with a mesh and a world transform that can be drawn
// into a texture-space render target.
type Renderable interface {
	Mesh() *mesh.Mesh
	Model() math.Mat4
}

// Batch records operations and executes them in program order on Flush.
// A batch is reusable: Flush leaves it empty.
type Batch interface {
	// SetTarget selects the render target for later Clear and DrawMesh calls.
	SetTarget(t Texture)
	// Clear fills the current target with c.
	Clear(c Color)
	// DrawMesh rasterises r in its UV parametrisation into the current target.
	DrawMesh(r Renderable, p Program, params *Params)
	// Blit writes src into dst, through p when p is non-nil.
	// ParamMainTex is bound to src automatically.
	Blit(src, dst Texture, p Program, params *Params)
	// Flush executes the recorded operations and empties the batch.
	Flush() error
	// Len returns the number of recorded operations.
	Len() int
}

// Backend allocates GPU resources.
type Backend interface {
	Name() string
	NewTexture(width, height int, f Format) (Texture, error)
	DeleteTexture(t Texture)
	NewProgram(name string) (Program, error)
	NewBatch(name string) Batch
	// ReadTexture copies a texture back to the CPU.
	ReadTexture(t Texture) (*Pixels, error)
}

// Pixels is a CPU copy of a texture, RGBA row-major, row 0 at v = 0.
type Pixels struct {
	Width  int
	Height int
	Data   []float32
}

// NewPixels allocates a zeroed pixel buffer.
func NewPixels(w, h int) *Pixels {
	return &Pixels{Width: w, Height: h, Data: make([]float32, w*h*4)}
}

// At returns the texel at (x, y).
func (p *Pixels) At(x, y int) Color {
	i := (y*p.Width + x) * 4
	return Color{p.Data[i], p.Data[i+1], p.Data[i+2], p.Data[i+3]}
}

// Set writes the texel at (x, y).
func (p *Pixels) Set(x, y int, c Color) {
	i := (y*p.Width + x) * 4
	p.Data[i], p.Data[i+1], p.Data[i+2], p.Data[i+3] = c.R, c.G, c.B, c.A
}

// Coverage returns the alpha channel at (x, y).
func (p *Pixels) Coverage(x, y int) float32 {
	return p.Data[(y*p.Width+x)*4+3]
}

// TotalCoverage sums alpha over all texels.
func (p *Pixels) TotalCoverage() float64 {
	var sum float64
	for i := 3; i < len(p.Data); i += 4 {
		sum += float64(p.Data[i])
	}
	return sum
}
