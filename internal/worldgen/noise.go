// Package worldgen produces terrain height grids procedurally when no
// heightmap image is supplied.
package worldgen

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/terragrid/internal/terrain"
)

// octave is one layer in a sum series of opensimplex noise. Frequency is
// in cycles per sample and amplitude is in world height units.
type octave struct {
	frequency float64
	amplitude float64
}

// defaultOctaves stacks broad rolling hills with progressively finer
// detail at decaying amplitude.
var defaultOctaves = []octave{
	{1.0 / 256, 1.0},
	{1.0 / 64, 0.35},
	{1.0 / 16, 0.12},
	{1.0 / 4, 0.03},
}

// Generator fills terrain grids from seeded opensimplex noise. A given
// seed always yields the same heights.
type Generator struct {
	noises  []opensimplex.Noise
	octaves []octave
}

// NewGenerator creates a generator for the given seed. Each octave gets
// its own noise instance, seeded from the base seed, so octaves do not
// sample correlated regions of one noise field.
func NewGenerator(seed int64) *Generator {
	g := &Generator{octaves: defaultOctaves}
	for i := range g.octaves {
		g.noises = append(g.noises, opensimplex.New(seed+int64(i)))
	}
	return g
}

// Generate creates a width x rows grid and fills it with noise heights
// scaled into [lowest, highest].
func (g *Generator) Generate(width, rows int, lowest, highest, scale, offsetX, offsetZ float32) (*terrain.Grid, error) {
	grid, err := terrain.NewGrid(width, rows, scale, offsetX, offsetZ)
	if err != nil {
		return nil, fmt.Errorf("generate %dx%d terrain: %w", width, rows, err)
	}

	// The raw octave sum lands in [-total, total]; rescale that span to
	// [lowest, highest].
	var total float64
	for _, o := range g.octaves {
		total += o.amplitude
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < width; col++ {
			var sum float64
			for i, o := range g.octaves {
				sum += g.noises[i].Eval2(float64(col)*o.frequency, float64(row)*o.frequency) * o.amplitude
			}
			t := float32((sum + total) / (2 * total))
			grid.SetHeight(row, col, t*(highest-lowest)+lowest)
		}
	}
	return grid, nil
}
