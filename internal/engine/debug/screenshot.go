// Package debug writes paint textures out for inspection: PNG snapshots and
// a terminal coverage view.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Faultbox/touchpaint/internal/engine/gpu"
)

// SnapshotCapture writes texture read-backs as PNG files.
type SnapshotCapture struct {
	outputDir string
	prefix    string
}

// NewSnapshotCapture creates a capture handler writing into outputDir.
func NewSnapshotCapture(outputDir, prefix string) *SnapshotCapture {
	return &SnapshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// SetOutputDir sets the output directory for snapshots.
func (sc *SnapshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// Filename returns the path a snapshot named name is written to.
func (sc *SnapshotCapture) Filename(name string) string {
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, name)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// Capture writes the colour of px, and a coverage image when withCoverage
// is set, and returns the paths written.
func (sc *SnapshotCapture) Capture(name string, px *gpu.Pixels, withCoverage bool) ([]string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	paths := []string{sc.Filename(name)}
	if err := SavePNG(paths[0], ColorImage(px)); err != nil {
		return nil, err
	}
	if withCoverage {
		path := sc.Filename(name + "_coverage")
		if err := SavePNG(path, CoverageImage(px)); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// ColorImage converts pixels to an 8-bit image with straight alpha.
// Texel row 0 is v = 0, so rows are flipped to put v = 1 at the top.
func ColorImage(px *gpu.Pixels) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, px.Width, px.Height))
	for y := 0; y < px.Height; y++ {
		for x := 0; x < px.Width; x++ {
			c := px.At(x, px.Height-1-y)
			img.SetNRGBA(x, y, color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)})
		}
	}
	return img
}

// CoverageImage renders the alpha channel as grey levels, flipped like
// ColorImage.
func CoverageImage(px *gpu.Pixels) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, px.Width, px.Height))
	for y := 0; y < px.Height; y++ {
		for x := 0; x < px.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: to8(px.Coverage(x, px.Height-1-y))})
		}
	}
	return img
}

func to8(v float32) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
