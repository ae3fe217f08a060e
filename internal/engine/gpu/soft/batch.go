package soft

import (
	"fmt"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
)

type opKind int

const (
	opClear opKind = iota
	opDraw
	opBlit
)

type op struct {
	kind       opKind
	target     gpu.Texture
	src        gpu.Texture
	color      gpu.Color
	renderable gpu.Renderable
	program    gpu.Program
	params     *gpu.Params
}

// Batch records operations and runs them on Flush.
type Batch struct {
	name    string
	backend *Backend
	target  gpu.Texture
	ops     []op
}

// SetTarget implements gpu.Batch.
func (b *Batch) SetTarget(t gpu.Texture) { b.target = t }

// Clear implements gpu.Batch.
func (b *Batch) Clear(c gpu.Color) {
	b.ops = append(b.ops, op{kind: opClear, target: b.target, color: c})
}

// DrawMesh implements gpu.Batch.
func (b *Batch) DrawMesh(r gpu.Renderable, p gpu.Program, params *gpu.Params) {
	b.ops = append(b.ops, op{kind: opDraw, target: b.target, renderable: r, program: p, params: params.Clone()})
}

// Blit implements gpu.Batch.
func (b *Batch) Blit(src, dst gpu.Texture, p gpu.Program, params *gpu.Params) {
	pp := params.Clone().SetTexture(gpu.ParamMainTex, src)
	b.ops = append(b.ops, op{kind: opBlit, target: dst, src: src, program: p, params: pp})
}

// Len implements gpu.Batch.
func (b *Batch) Len() int { return len(b.ops) }

// Flush implements gpu.Batch. Operations run in recording order; the first
// failure stops the flush and the remaining operations are dropped.
func (b *Batch) Flush() error {
	ops := b.ops
	b.ops = nil
	for i, o := range ops {
		if err := b.run(o); err != nil {
			return fmt.Errorf("batch %q op %d: %w", b.name, i, err)
		}
	}
	return nil
}

func (b *Batch) run(o op) error {
	if o.target == nil {
		return gpu.ErrNoTarget
	}
	dst, err := b.backend.own(o.target)
	if err != nil {
		return err
	}

	switch o.kind {
	case opClear:
		dst.fill(o.color)
		return nil

	case opDraw:
		prog, ok := o.program.(*program)
		if !ok || prog.draw == nil {
			return fmt.Errorf("%w: %v is not a draw program", gpu.ErrUnknownProgram, o.program)
		}
		rasterize(o.renderable, dst.width, dst.height, func(f fragment) {
			dst.set(f.X, f.Y, prog.draw(f, o.params))
		})
		return nil

	case opBlit:
		src, err := b.backend.own(o.src)
		if err != nil {
			return err
		}
		if !src.sameSize(dst) {
			return fmt.Errorf("%w: %dx%d -> %dx%d", gpu.ErrSizeMismatch, src.width, src.height, dst.width, dst.height)
		}
		// Reading and writing the same texture would feed results back
		// into the kernel.
		if src == dst {
			src = src.clone()
		}
		return blit(src, dst, o.program, o.params)
	}
	return nil
}

func blit(src, dst *Texture, p gpu.Program, params *gpu.Params) error {
	if p == nil {
		for y := 0; y < dst.height; y++ {
			for x := 0; x < dst.width; x++ {
				dst.set(x, y, src.at(x, y))
			}
		}
		return nil
	}
	prog, ok := p.(*program)
	if !ok || prog.blit == nil {
		return fmt.Errorf("%w: %v is not a blit program", gpu.ErrUnknownProgram, p)
	}
	for y := 0; y < dst.height; y++ {
		for x := 0; x < dst.width; x++ {
			c, err := prog.blit(src, x, y, params)
			if err != nil {
				return err
			}
			dst.set(x, y, c)
		}
	}
	return nil
}
