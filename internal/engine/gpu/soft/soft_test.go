package soft

import (
	"errors"
	"testing"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
	"github.com/Faultbox/touchpaint/internal/engine/mesh"
	"github.com/Faultbox/touchpaint/pkg/math"
)

type object struct {
	m     *mesh.Mesh
	model math.Mat4
}

func (o object) Mesh() *mesh.Mesh { return o.m }
func (o object) Model() math.Mat4 { return o.model }

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func mustTexture(t *testing.T, b *Backend, w, h int, f gpu.Format) gpu.Texture {
	t.Helper()
	tex, err := b.NewTexture(w, h, f)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	return tex
}

func mustProgram(t *testing.T, b *Backend, name string) gpu.Program {
	t.Helper()
	p, err := b.NewProgram(name)
	if err != nil {
		t.Fatalf("NewProgram(%q): %v", name, err)
	}
	return p
}

func mustRead(t *testing.T, b *Backend, tex gpu.Texture) *gpu.Pixels {
	t.Helper()
	px, err := b.ReadTexture(tex)
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	return px
}

// islandTexture rasterises island ids of a split quad into a 16x16 texture.
func islandTexture(t *testing.T, b *Backend, obj object) gpu.Texture {
	t.Helper()
	islands := mustTexture(t, b, 16, 16, gpu.R32F)
	batch := b.NewBatch("prepare")
	batch.SetTarget(islands)
	batch.Clear(gpu.Transparent)
	batch.DrawMesh(obj, mustProgram(t, b, gpu.ProgramStamp), gpu.NewParams().SetFloat(gpu.ParamPrepareUV, 1))
	if err := batch.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return islands
}

func TestPrepareUVWritesIslandIDs(t *testing.T) {
	b := New()
	obj := object{mesh.SplitQuad("seam", 2, 1, 0.2), math.Identity()}
	px := mustRead(t, b, islandTexture(t, b, obj))

	tests := []struct {
		x    int
		want float32
	}{
		{1, 1},  // u = 0.09, left island
		{5, 1},  // u = 0.34
		{7, 0},  // u = 0.47, gutter
		{8, 0},  // u = 0.53, gutter
		{10, 2}, // u = 0.66, right island
		{15, 2},
	}
	for _, tt := range tests {
		if got := px.At(tt.x, 8).R; got != tt.want {
			t.Errorf("texel %d: island %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestStampFalloff(t *testing.T) {
	b := New()
	obj := object{mesh.Quad("q", 1, 1, math.Vec2{}, math.Vec2{X: 1, Y: 1}), math.Identity()}
	base := mustTexture(t, b, 32, 32, gpu.RGBA32F)
	target := mustTexture(t, b, 32, 32, gpu.RGBA32F)

	params := gpu.NewParams().
		SetVec3(gpu.ParamPosition, math.Vec3{}).
		SetFloat(gpu.ParamRadius, 0.25).
		SetFloat(gpu.ParamHardness, 0.5).
		SetFloat(gpu.ParamStrength, 1).
		SetColor(gpu.ParamColor, gpu.Red).
		SetTexture(gpu.ParamMainTex, base)

	batch := b.NewBatch("stamp")
	batch.SetTarget(target)
	batch.DrawMesh(obj, mustProgram(t, b, gpu.ProgramStamp), params)
	if err := batch.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	px := mustRead(t, b, target)
	centre := px.At(16, 16)
	if !approx(centre.A, 1) || !approx(centre.R, 1) {
		t.Errorf("centre = %+v, want full red", centre)
	}
	if px.Coverage(0, 0) != 0 {
		t.Errorf("corner coverage = %v, want 0", px.Coverage(0, 0))
	}
	// Coverage falls off between r*hardness and r.
	mid := px.Coverage(16+6, 16) // about 0.2 from the centre
	if mid <= 0 || mid >= 1 {
		t.Errorf("falloff coverage = %v, want in (0, 1)", mid)
	}
}

func TestStampBlendsOverBase(t *testing.T) {
	b := New()
	obj := object{mesh.Quad("q", 1, 1, math.Vec2{}, math.Vec2{X: 1, Y: 1}), math.Identity()}
	base := mustTexture(t, b, 8, 8, gpu.RGBA32F)
	target := mustTexture(t, b, 8, 8, gpu.RGBA32F)

	batch := b.NewBatch("stamp")
	batch.SetTarget(base)
	batch.Clear(gpu.Color{B: 1, A: 0.5})
	batch.SetTarget(target)
	batch.DrawMesh(obj, mustProgram(t, b, gpu.ProgramStamp), gpu.NewParams().
		SetFloat(gpu.ParamRadius, 10).
		SetFloat(gpu.ParamHardness, 1).
		SetFloat(gpu.ParamStrength, 0.5).
		SetColor(gpu.ParamColor, gpu.Red).
		SetTexture(gpu.ParamMainTex, base))
	if err := batch.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	c := mustRead(t, b, target).At(3, 3)
	want := gpu.Color{R: 0.5, B: 0.5, A: 0.75}
	if !approx(c.R, want.R) || !approx(c.B, want.B) || !approx(c.A, want.A) {
		t.Errorf("blend = %+v, want %+v", c, want)
	}
}

func TestExtendFillsGutter(t *testing.T) {
	tests := []struct {
		name   string
		offset float32
		filled map[int]bool // gutter texels on row 8 expected to be filled
	}{
		{"offset 0", 0, map[int]bool{6: false, 7: false, 8: false, 9: false}},
		{"offset 1", 1, map[int]bool{6: true, 7: false, 8: false, 9: true}},
		{"offset 2", 2, map[int]bool{6: true, 7: true, 8: true, 9: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			obj := object{mesh.SplitQuad("seam", 2, 1, 0.2), math.Identity()}
			islands := islandTexture(t, b, obj)
			src := mustTexture(t, b, 16, 16, gpu.RGBA32F)
			dst := mustTexture(t, b, 16, 16, gpu.RGBA32F)

			batch := b.NewBatch("extend")
			batch.SetTarget(src)
			batch.DrawMesh(obj, mustProgram(t, b, gpu.ProgramStamp), gpu.NewParams().
				SetFloat(gpu.ParamRadius, 10).
				SetFloat(gpu.ParamHardness, 1).
				SetFloat(gpu.ParamStrength, 1).
				SetColor(gpu.ParamColor, gpu.White))
			batch.Blit(src, dst, mustProgram(t, b, gpu.ProgramExtend), gpu.NewParams().
				SetTexture(gpu.ParamIslands, islands).
				SetFloat(gpu.ParamOffset, tt.offset))
			if err := batch.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}

			px := mustRead(t, b, dst)
			for x, want := range tt.filled {
				got := px.Coverage(x, 8) == 1
				if got != want {
					t.Errorf("texel %d filled = %v, want %v", x, got, want)
				}
			}
			if px.Coverage(2, 8) != 1 {
				t.Error("island texel should keep its value")
			}
		})
	}
}

func TestDecay(t *testing.T) {
	tests := []struct {
		name      string
		decayTime float32
		elapsed   float32
		start     float32
		want      float32
	}{
		{"half", 3, 1.5, 1, 0.5},
		{"clamps at zero", 3, 10, 0.4, 0},
		{"zero time clears", 0, 0.01, 1, 0},
		{"empty stays empty", 3, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			src := mustTexture(t, b, 4, 4, gpu.RGBA32F)
			dst := mustTexture(t, b, 4, 4, gpu.RGBA32F)

			batch := b.NewBatch("decay")
			batch.SetTarget(src)
			batch.Clear(gpu.Color{R: 1, A: tt.start})
			batch.Blit(src, dst, mustProgram(t, b, gpu.ProgramDecay), gpu.NewParams().
				SetFloat(gpu.ParamDecayTime, tt.decayTime).
				SetFloat(gpu.ParamElapsed, tt.elapsed))
			if err := batch.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}

			c := mustRead(t, b, dst).At(1, 1)
			if !approx(c.A, tt.want) {
				t.Errorf("alpha = %v, want %v", c.A, tt.want)
			}
			if c.R != 1 {
				t.Errorf("colour changed: %+v", c)
			}
		})
	}
}

func TestParamsClonedAtRecord(t *testing.T) {
	b := New()
	src := mustTexture(t, b, 2, 2, gpu.RGBA32F)
	dst := mustTexture(t, b, 2, 2, gpu.RGBA32F)
	decay := mustProgram(t, b, gpu.ProgramDecay)

	params := gpu.NewParams().SetFloat(gpu.ParamDecayTime, 1).SetFloat(gpu.ParamElapsed, 0.25)
	batch := b.NewBatch("clone")
	batch.SetTarget(src)
	batch.Clear(gpu.White)
	batch.Blit(src, dst, decay, params)
	params.SetFloat(gpu.ParamElapsed, 1)

	if batch.Len() != 2 {
		t.Fatalf("Len = %d, want 2", batch.Len())
	}
	if err := batch.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if batch.Len() != 0 {
		t.Errorf("Len after Flush = %d, want 0", batch.Len())
	}
	if a := mustRead(t, b, dst).Coverage(0, 0); !approx(a, 0.75) {
		t.Errorf("alpha = %v, want 0.75", a)
	}
}

func TestBlitInPlace(t *testing.T) {
	b := New()
	tex := mustTexture(t, b, 4, 4, gpu.RGBA32F)
	batch := b.NewBatch("inplace")
	batch.SetTarget(tex)
	batch.Clear(gpu.White)
	batch.Blit(tex, tex, mustProgram(t, b, gpu.ProgramDecay), gpu.NewParams().
		SetFloat(gpu.ParamDecayTime, 2).SetFloat(gpu.ParamElapsed, 1))
	if err := batch.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if a := mustRead(t, b, tex).Coverage(3, 3); !approx(a, 0.5) {
		t.Errorf("alpha = %v, want 0.5", a)
	}
}

func TestFlushErrors(t *testing.T) {
	b := New()
	small := mustTexture(t, b, 2, 2, gpu.RGBA32F)
	big := mustTexture(t, b, 4, 4, gpu.RGBA32F)

	batch := b.NewBatch("errors")
	batch.Clear(gpu.White)
	if err := batch.Flush(); !errors.Is(err, gpu.ErrNoTarget) {
		t.Errorf("clear without target: %v, want ErrNoTarget", err)
	}

	batch.Blit(small, big, nil, nil)
	if err := batch.Flush(); !errors.Is(err, gpu.ErrSizeMismatch) {
		t.Errorf("size mismatch: %v, want ErrSizeMismatch", err)
	}

	if _, err := b.NewProgram("bogus"); !errors.Is(err, gpu.ErrUnknownProgram) {
		t.Errorf("NewProgram: %v, want ErrUnknownProgram", err)
	}

	b.DeleteTexture(small)
	if _, err := b.ReadTexture(small); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("read deleted: %v, want ErrForeignTexture", err)
	}
	if b.Textures() != 1 {
		t.Errorf("Textures = %d, want 1", b.Textures())
	}
}
