package terrain

import (
	"github.com/Faultbox/terragrid/pkg/math"
)

// Tile is one fixed-size rectangular window into the terrain geometry,
// rendered as an independent mesh at one LoD. Tiles are owned by their
// TileGrid and addressed by grid coordinates; they hold no reference to the
// geometry themselves.
type Tile struct {
	row, col           int // tile coordinates within the TileGrid
	rowStart, colStart int // sample offsets into the grid

	lod     int // current stride; 0 until the first successful build
	want    int // stride requested by the last LoD selection
	dirty   bool
	mesh    *Mesh
	version uint64
}

// LOD returns the stride of the currently built mesh, or 0 if the tile has
// never been built.
func (t *Tile) LOD() int { return t.lod }

// Mesh returns the tile's current mesh buffers, or nil before the first
// successful build. The buffers are valid for the current frame only; the
// next update may replace them in place.
func (t *Tile) Mesh() *Mesh { return t.mesh }

// Version increases every time the tile's mesh is regenerated, letting a
// renderer detect stale GPU buffers.
func (t *Tile) Version() uint64 { return t.version }

// TileInstance is one entry of the renderable sequence: a world transform
// plus the mesh buffers to draw with it.
type TileInstance struct {
	Transform math.Mat4
	Mesh      *Mesh
	Version   uint64
	Row, Col  int
}

// SingleMesh is the trivial renderable: one mesh at one transform. It
// stands in for a TileGrid wherever a fixed, untiled surface is enough
// (small props, test fixtures).
type SingleMesh struct {
	mesh      *Mesh
	transform math.Mat4
}

// NewSingleMesh builds the entire geometry as one full-detail mesh.
func NewSingleMesh(geom *Geometry, transform math.Mat4) (*SingleMesh, error) {
	mesh, err := geom.BuildMesh(0, 0, geom.Grid().Rows(), geom.Grid().Width(), 1)
	if err != nil {
		return nil, err
	}
	return &SingleMesh{mesh: mesh, transform: transform}, nil
}

// ForEachTile yields the single mesh instance.
func (s *SingleMesh) ForEachTile(fn func(TileInstance) bool) {
	fn(TileInstance{Transform: s.transform, Mesh: s.mesh, Version: 1})
}
