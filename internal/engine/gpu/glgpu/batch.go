package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

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

// Batch records GL work and submits it on Flush.
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

// Flush implements gpu.Batch.
func (b *Batch) Flush() error {
	ops := b.ops
	b.ops = nil

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

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
		dst.bind()
		gl.ClearColor(o.color.R, o.color.G, o.color.B, o.color.A)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		return nil

	case opDraw:
		prog, ok := o.program.(*Program)
		if !ok || prog.blit {
			return fmt.Errorf("%w: %v is not a draw program", gpu.ErrUnknownProgram, o.program)
		}
		m := o.renderable.Mesh()
		if m == nil {
			return nil
		}
		dst.bind()
		gl.UseProgram(prog.id)
		model := o.renderable.Model()
		gl.UniformMatrix4fv(prog.Uniform("uModel"), 1, false, model.Ptr())
		if err := b.bindParams(prog, o.params); err != nil {
			return err
		}
		b.backend.buffers(m).draw()
		return nil

	case opBlit:
		src, err := b.backend.own(o.src)
		if err != nil {
			return err
		}
		if src.width != dst.width || src.height != dst.height {
			return fmt.Errorf("%w: %dx%d -> %dx%d", gpu.ErrSizeMismatch, src.width, src.height, dst.width, dst.height)
		}
		params := o.params
		if src == dst {
			// Sampling the render target is a feedback loop; go through scratch.
			scratch, err := b.backend.scratchFor(src)
			if err != nil {
				return err
			}
			if err := b.fullscreen(b.backend.copyProg, scratch, gpu.NewParams().SetTexture(gpu.ParamMainTex, src)); err != nil {
				return err
			}
			params = params.Clone().SetTexture(gpu.ParamMainTex, scratch)
		}
		prog := b.backend.copyProg
		if o.program != nil {
			p, ok := o.program.(*Program)
			if !ok || !p.blit {
				return fmt.Errorf("%w: %v is not a blit program", gpu.ErrUnknownProgram, o.program)
			}
			prog = p
		}
		return b.fullscreen(prog, dst, params)
	}
	return nil
}

func (b *Batch) fullscreen(prog *Program, dst *Texture, params *gpu.Params) error {
	dst.bind()
	gl.UseProgram(prog.id)
	if err := b.bindParams(prog, params); err != nil {
		return err
	}
	gl.BindVertexArray(b.backend.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	return nil
}

// bindParams uploads params as uniforms. Textures take units in name order.
func (b *Batch) bindParams(prog *Program, params *gpu.Params) error {
	var unit int32
	var bindErr error
	params.Each(
		func(name string, v float32) {
			gl.Uniform1f(prog.Uniform(name), v)
		},
		func(name string, v gpu.Vector) {
			loc := prog.Uniform(name)
			switch v.N {
			case 2:
				gl.Uniform2f(loc, v.V[0], v.V[1])
			case 3:
				gl.Uniform3f(loc, v.V[0], v.V[1], v.V[2])
			default:
				gl.Uniform4f(loc, v.V[0], v.V[1], v.V[2], v.V[3])
			}
		},
		func(name string, t gpu.Texture) {
			gt, err := b.backend.own(t)
			if err != nil {
				if bindErr == nil {
					bindErr = fmt.Errorf("binding %s: %w", name, err)
				}
				return
			}
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_2D, gt.id)
			gl.Uniform1i(prog.Uniform(name), unit)
			unit++
		},
	)
	return bindErr
}
