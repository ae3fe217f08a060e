package debug

import (
	gomath "math"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
)

// Panel is one texture shown by TermView.
type Panel struct {
	Name   string
	Pixels *gpu.Pixels
}

// shades maps coverage quarters to block glyphs.
var shades = [...]rune{' ', '░', '▒', '▓', '█'}

// TermView renders texture coverage as shaded cells in a terminal.
type TermView struct {
	screen tcell.Screen
	Title  string
}

// NewTermView draws on screen. The caller owns Init and Fini.
func NewTermView(screen tcell.Screen) *TermView {
	return &TermView{screen: screen}
}

// Draw lays panels side by side under a title row and shows the frame.
// Each cell averages the texels it covers; v = 1 is at the top.
func (v *TermView) Draw(panels []Panel, status string) {
	v.screen.Clear()
	width, height := v.screen.Size()

	title := tcell.StyleDefault.Bold(true)
	v.text(0, 0, v.Title+"  "+status, title)

	if len(panels) == 0 || height < 3 {
		v.screen.Show()
		return
	}

	const gap = 1
	cw := (width - gap*(len(panels)-1)) / len(panels)
	ch := height - 2
	if cw < 1 {
		v.screen.Show()
		return
	}

	for i, p := range panels {
		x0 := i * (cw + gap)
		v.text(x0, 1, truncate(p.Name, cw), tcell.StyleDefault.Foreground(tcell.ColorSilver))
		if p.Pixels == nil {
			continue
		}
		for cy := 0; cy < ch; cy++ {
			for cx := 0; cx < cw; cx++ {
				c := cellAverage(p.Pixels, cx, ch-1-cy, cw, ch)
				style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
					int32(to8(c.R)), int32(to8(c.G)), int32(to8(c.B))))
				v.screen.SetContent(x0+cx, 2+cy, Shade(c.A), nil, style)
			}
		}
	}
	v.screen.Show()
}

// Shade returns the block glyph for a coverage value.
func Shade(coverage float32) rune {
	if coverage <= 0 {
		return shades[0]
	}
	i := int(gomath.Ceil(float64(coverage) * 4))
	return shades[min(max(i, 1), 4)]
}

func (v *TermView) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// cellAverage averages the texels under cell (cx, cy) of a cw x ch grid,
// with cy counted from v = 0.
func cellAverage(px *gpu.Pixels, cx, cy, cw, ch int) gpu.Color {
	x0, x1 := span(cx, cw, px.Width)
	y0, y1 := span(cy, ch, px.Height)

	var sum gpu.Color
	n := float32((x1 - x0) * (y1 - y0))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := px.At(x, y)
			sum.R += c.R
			sum.G += c.G
			sum.B += c.B
			sum.A += c.A
		}
	}
	return gpu.Color{R: sum.R / n, G: sum.G / n, B: sum.B / n, A: sum.A / n}
}

// span returns the texel range [lo, hi) of cell i out of cells over size
// texels. It is never empty.
func span(i, cells, size int) (int, int) {
	lo := i * size / cells
	hi := (i + 1) * size / cells
	if hi <= lo {
		hi = min(lo+1, size)
		lo = hi - 1
	}
	return lo, hi
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
