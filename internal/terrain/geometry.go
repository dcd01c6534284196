package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terragrid/pkg/math"
)

// RowSpacing is the spacing between rows of a mesh of equilateral triangles
// with sides of length one. This is equal to 0.5 * tan(pi / 3).
const RowSpacing = 0.8660254037844386

// Vertex is a terrain mesh vertex in the layout the renderer expects.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds generated vertex and index buffers, ready for GPU upload.
// Indices describe consistently wound triangles into Vertices.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Geometry derives 3D vertex positions and normals from a height grid, and
// builds triangle meshes for rectangular sub-ranges of it at a chosen
// sampling stride. It exclusively owns its Grid.
type Geometry struct {
	grid *Grid
}

// NewGeometry wraps a grid. The geometry takes ownership; the grid must not
// be shared with another Geometry.
func NewGeometry(grid *Grid) *Geometry {
	return &Geometry{grid: grid}
}

// Grid returns the underlying height grid.
func (g *Geometry) Grid() *Grid { return g.grid }

// VertexCount returns the number of addressable vertices.
func (g *Geometry) VertexCount() int {
	return g.grid.width * g.grid.rows
}

// Index returns the flat vertex index for a row/column pair.
func (g *Geometry) Index(row, col int) int {
	return row*g.grid.width + col
}

// VertexPosition returns the world-space position of vertex n.
// Odd rows are offset +0.5 edge lengths in X; rows are RowSpacing edge
// lengths apart in Z. Y is the stored height sample.
func (g *Geometry) VertexPosition(n int) (math.Vec3, error) {
	if n < 0 || n >= g.VertexCount() {
		return math.Vec3{}, fmt.Errorf("vertex %d of %d: %w", n, g.VertexCount(), ErrOutOfBounds)
	}
	return g.position(n), nil
}

func (g *Geometry) position(n int) math.Vec3 {
	row := n / g.grid.width
	col := n % g.grid.width
	parity := float32(0)
	if row%2 == 1 {
		parity = 0.5
	}
	return math.Vec3{
		X: (float32(col)+parity)*g.grid.scale + g.grid.offsetX,
		Y: g.grid.heights[n],
		Z: float32(row)*RowSpacing*g.grid.scale + g.grid.offsetZ,
	}
}

// VertexNormal estimates the surface normal at vertex n from its adjacent
// vertices. For each edge to a neighbor it takes the perpendicular of the
// edge that points toward world up, then averages over however many
// neighbors exist (2 at corners, up to 6 in the interior) and renormalizes.
// A cheap, purely local finite-difference estimate; slightly faceted
// compared to a least-squares fit.
func (g *Geometry) VertexNormal(n int) (math.Vec3, error) {
	if n < 0 || n >= g.VertexCount() {
		return math.Vec3{}, fmt.Errorf("vertex %d of %d: %w", n, g.VertexCount(), ErrOutOfBounds)
	}
	return g.normal(n), nil
}

func (g *Geometry) normal(n int) math.Vec3 {
	pos := g.position(n)
	adjacents := g.adjacentVertices(n/g.grid.width, n%g.grid.width)

	var sum math.Vec3
	for _, adj := range adjacents {
		edge := pos.Sub(g.position(adj))
		var perp math.Vec3
		switch {
		case edge.Y > 0:
			perp = math.Vec3{X: -edge.X, Y: 1 / edge.Y, Z: -edge.Z}.Normalize()
		case edge.Y < 0:
			perp = math.Vec3{X: edge.X, Y: -1 / edge.Y, Z: edge.Z}.Normalize()
		default:
			perp = math.Vec3{Y: 1}
		}
		sum = sum.Add(perp)
	}
	return sum.Scale(1 / float32(len(adjacents))).Normalize()
}

// vertex assembles the full vertex record for index n. Texture UVs map
// directly from world X/Z and rely on sampler wrapping.
func (g *Geometry) vertex(n int) Vertex {
	pos := g.position(n)
	nrm := g.normal(n)
	return Vertex{
		Position: [3]float32{pos.X, pos.Y, pos.Z},
		Normal:   [3]float32{nrm.X, nrm.Y, nrm.Z},
		TexCoord: [2]float32{pos.X, pos.Z},
	}
}

// adjacentVertices lists the flat indices of the vertices adjacent to
// (row, col) in the triangle mesh. The two neighbors in the rows above and
// below depend on row parity; the left/right neighbors do not. Boundary
// vertices get fewer neighbors.
func (g *Geometry) adjacentVertices(row, col int) []int {
	adjacents := make([]int, 0, 6)

	rowAbove := row - 1
	rowBelow := row + 1
	if row%2 == 0 {
		colLeft := col - 1
		if rowAbove >= 0 {
			if colLeft >= 0 {
				adjacents = append(adjacents, g.Index(rowAbove, colLeft))
			}
			adjacents = append(adjacents, g.Index(rowAbove, col))
		}
		if rowBelow < g.grid.rows {
			if colLeft >= 0 {
				adjacents = append(adjacents, g.Index(rowBelow, colLeft))
			}
			adjacents = append(adjacents, g.Index(rowBelow, col))
		}
	} else {
		colRight := col + 1
		if rowAbove >= 0 {
			adjacents = append(adjacents, g.Index(rowAbove, col))
			if colRight < g.grid.width {
				adjacents = append(adjacents, g.Index(rowAbove, colRight))
			}
		}
		if rowBelow < g.grid.rows {
			adjacents = append(adjacents, g.Index(rowBelow, col))
			if colRight < g.grid.width {
				adjacents = append(adjacents, g.Index(rowBelow, colRight))
			}
		}
	}
	if col-1 >= 0 {
		adjacents = append(adjacents, g.Index(row, col-1))
	}
	if col+1 < g.grid.width {
		adjacents = append(adjacents, g.Index(row, col+1))
	}

	return adjacents
}

// BuildMesh triangulates a rectangular sub-range of the grid sampled at
// every stride-th row and column. rows and cols count sampled vertices, so
// the mesh spans (rows-1)*stride grid rows. Each interior quad of the
// sampled sub-grid is split into two triangles along the diagonal matching
// the underlying row's parity offset, which keeps the mesh manifold and
// consistently wound with no T-junctions inside one tile.
func (g *Geometry) BuildMesh(rowStart, colStart, rows, cols, stride int) (*Mesh, error) {
	if stride < 1 {
		return nil, fmt.Errorf("stride %d: %w", stride, ErrInvalidRange)
	}
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("mesh of %dx%d sampled vertices: %w", cols, rows, ErrInvalidRange)
	}
	if rowStart < 0 || colStart < 0 ||
		rowStart+(rows-1)*stride >= g.grid.rows ||
		colStart+(cols-1)*stride >= g.grid.width {
		return nil, fmt.Errorf("mesh rows %d+%d cols %d+%d stride %d exceeds %dx%d grid: %w",
			rowStart, rows, colStart, cols, stride, g.grid.width, g.grid.rows, ErrInvalidRange)
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, rows*cols),
		Indices:  make([]uint32, 0, (rows-1)*(cols-1)*6),
	}
	for i := 0; i < rows; i++ {
		gridRow := rowStart + i*stride
		for j := 0; j < cols; j++ {
			mesh.Vertices = append(mesh.Vertices, g.vertex(g.Index(gridRow, colStart+j*stride)))

			if i >= rows-1 || j >= cols-1 {
				continue
			}
			a := uint32(i*cols + j) // this vertex
			b := a + 1              // east
			c := a + uint32(cols)   // south
			d := c + 1              // southeast
			if gridRow%2 == 0 {
				mesh.Indices = append(mesh.Indices, a, c, b)
				mesh.Indices = append(mesh.Indices, b, c, d)
			} else {
				mesh.Indices = append(mesh.Indices, a, d, b)
				mesh.Indices = append(mesh.Indices, a, c, d)
			}
		}
	}
	return mesh, nil
}

// rowFor returns the row band containing world Z.
func (g *Geometry) rowFor(z float32) int {
	return int(math32.Floor((z - g.grid.offsetZ) / (RowSpacing * g.grid.scale)))
}

// colFor returns the estimated column for world X in the given row. The
// estimate can be off by one near the boundary between even and odd rows
// because of the parity offset.
func (g *Geometry) colFor(x float32, row int) int {
	parity := float32(0)
	if row%2 == 1 {
		parity = 0.5
	}
	return int(math32.Floor((x-g.grid.offsetX)/g.grid.scale - parity))
}
