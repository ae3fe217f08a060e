package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
)

func TestColorImageFlipsRows(t *testing.T) {
	px := gpu.NewPixels(2, 2)
	px.Set(0, 0, gpu.Red)
	px.Set(1, 1, gpu.Color{R: 2, G: -1, B: 0.5, A: 0.5})

	img := ColorImage(px)
	if got := img.NRGBAAt(0, 1); got.R != 255 || got.A != 255 || got.G != 0 {
		t.Errorf("v=0 texel should be the bottom row, got %+v", got)
	}
	if got := img.NRGBAAt(1, 0); got.R != 255 || got.G != 0 || got.B != 128 || got.A != 128 {
		t.Errorf("clamped texel = %+v", got)
	}
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("empty texel = %+v", got)
	}
}

func TestCoverageImage(t *testing.T) {
	px := gpu.NewPixels(1, 2)
	px.Set(0, 0, gpu.Color{A: 1})
	px.Set(0, 1, gpu.Color{A: 0.25})

	img := CoverageImage(px)
	if img.GrayAt(0, 1).Y != 255 || img.GrayAt(0, 0).Y != 64 {
		t.Errorf("gray = %d, %d", img.GrayAt(0, 0).Y, img.GrayAt(0, 1).Y)
	}
}

func TestCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewSnapshotCapture(dir, "sim")
	px := gpu.NewPixels(4, 3)

	paths, err := sc.Capture("wall", px, true)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	want := []string{filepath.Join(dir, "sim_wall.png"), filepath.Join(dir, "sim_wall_coverage.png")}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("open %s: %v", p, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
			t.Errorf("%s: size %v", p, b)
		}
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		coverage float32
		want     rune
	}{
		{-1, ' '},
		{0, ' '},
		{0.01, '░'},
		{0.25, '░'},
		{0.3, '▒'},
		{0.6, '▓'},
		{1, '█'},
		{3, '█'},
	}
	for _, tt := range tests {
		if got := Shade(tt.coverage); got != tt.want {
			t.Errorf("Shade(%v) = %q, want %q", tt.coverage, got, tt.want)
		}
	}
}

func TestTermView(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 6)

	// Paint the upper half (v >= 0.5) of a 4x4 texture.
	px := gpu.NewPixels(4, 4)
	for y := 2; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px.Set(x, y, gpu.White)
		}
	}

	view := NewTermView(screen)
	view.Title = "paint"
	view.Draw([]Panel{{Name: "right-0", Pixels: px}}, "t=1s")

	cell := func(x, y int) rune {
		r, _, _, _ := screen.GetContent(x, y)
		return r
	}
	if cell(0, 0) != 'p' {
		t.Errorf("title cell = %q", cell(0, 0))
	}
	if cell(0, 1) != 'r' {
		t.Errorf("name cell = %q", cell(0, 1))
	}
	for cy := 0; cy < 4; cy++ {
		want := ' '
		if cy < 2 {
			want = '█'
		}
		for _, x := range []int{0, 10, 19} {
			if got := cell(x, 2+cy); got != want {
				t.Errorf("cell (%d, %d) = %q, want %q", x, 2+cy, got, want)
			}
		}
	}
}

func TestSpanNeverEmpty(t *testing.T) {
	// More cells than texels.
	for i := 0; i < 10; i++ {
		lo, hi := span(i, 10, 3)
		if hi-lo != 1 || lo < 0 || hi > 3 {
			t.Errorf("span(%d) = [%d, %d)", i, lo, hi)
		}
	}
}
