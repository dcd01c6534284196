// Package terrain generates and maintains a triangulated terrain surface
// from a grid of height samples. The mesh is a grid of equilateral
// triangles: odd rows are offset half an edge in X and rows are spaced
// sqrt(3)/2 edge lengths apart in Z. Tiles of the surface are retriangulated
// at varying density as a viewpoint moves, so on-screen triangle density
// stays roughly uniform.
package terrain

import (
	"fmt"
	"image"
)

// Grid holds raw height samples for a terrain surface, plus the edge length
// and XZ offset that place the surface in world space. Heights are immutable
// except through SetHeight.
type Grid struct {
	width   int // samples per row
	rows    int
	scale   float32 // triangle edge length in world units
	offsetX float32
	offsetZ float32
	heights []float32
}

// NewGrid creates a flat grid of width x rows height samples.
func NewGrid(width, rows int, scale, offsetX, offsetZ float32) (*Grid, error) {
	if width < 2 || rows < 2 {
		return nil, fmt.Errorf("grid must be at least 2x2, got %dx%d", width, rows)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("grid scale must be positive, got %g", scale)
	}
	return &Grid{
		width:   width,
		rows:    rows,
		scale:   scale,
		offsetX: offsetX,
		offsetZ: offsetZ,
		heights: make([]float32, width*rows),
	}, nil
}

// GridFromImage builds a grid from a decoded image, mapping mean RGB
// brightness into [lowest, highest]. The image's X axis maps to columns and
// its Y axis to rows.
func GridFromImage(img image.Image, lowest, highest, scale, offsetX, offsetZ float32) (*Grid, error) {
	bounds := img.Bounds()
	g, err := NewGrid(bounds.Dx(), bounds.Dy(), scale, offsetX, offsetZ)
	if err != nil {
		return nil, fmt.Errorf("heightmap image %dx%d: %w", bounds.Dx(), bounds.Dy(), err)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := img.At(x, y).RGBA()
			// 16-bit channels; mean brightness in [0, 1]
			h := float32(r+gr+b) / (3 * 65535)
			g.heights[(y-bounds.Min.Y)*g.width+(x-bounds.Min.X)] = h*(highest-lowest) + lowest
		}
	}
	return g, nil
}

// Width returns the number of samples per row.
func (g *Grid) Width() int { return g.width }

// Rows returns the number of sample rows.
func (g *Grid) Rows() int { return g.rows }

// Scale returns the triangle edge length in world units.
func (g *Grid) Scale() float32 { return g.scale }

// Offset returns the world-space XZ offset of sample (0, 0).
func (g *Grid) Offset() (x, z float32) { return g.offsetX, g.offsetZ }

// Sample returns the stored height at (row, col).
func (g *Grid) Sample(row, col int) (float32, error) {
	if row < 0 || col < 0 || row >= g.rows || col >= g.width {
		return 0, fmt.Errorf("sample (%d, %d) of %dx%d grid: %w", row, col, g.width, g.rows, ErrOutOfBounds)
	}
	return g.heights[row*g.width+col], nil
}

// SetHeight overwrites the stored height at (row, col).
func (g *Grid) SetHeight(row, col int, y float32) error {
	if row < 0 || col < 0 || row >= g.rows || col >= g.width {
		return fmt.Errorf("set height (%d, %d) of %dx%d grid: %w", row, col, g.width, g.rows, ErrOutOfBounds)
	}
	g.heights[row*g.width+col] = y
	return nil
}

// at returns the stored height without bounds checking. Callers must have
// validated the index.
func (g *Grid) at(row, col int) float32 {
	return g.heights[row*g.width+col]
}
