package terrain

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terragrid/pkg/math"
)

// DefaultTileSize is the edge length of a tile in height samples.
const DefaultTileSize = 256

// TileGridConfig configures a TileGrid at construction.
type TileGridConfig struct {
	// TileSize is the tile edge length in samples. Must be a power of two so
	// every power-of-two stride divides it evenly.
	TileSize int

	// DistanceScale widens (>1) or narrows (<1) the LoD distance rings.
	DistanceScale float32
}

// DefaultTileGridConfig returns the default tile grid settings.
func DefaultTileGridConfig() TileGridConfig {
	return TileGridConfig{
		TileSize:      DefaultTileSize,
		DistanceScale: 1.0,
	}
}

// TileGrid owns a rectangular array of tiles over a terrain geometry and
// keeps their meshes current as the camera moves: an area-of-record
// hysteresis gate decides when a LoD pass runs, the LoD selector assigns
// per-tile strides, and only tiles whose stride changed are retriangulated.
//
// A TileGrid is exclusively owned by one updating goroutine. Update and
// ForEachTile must not run concurrently.
type TileGrid struct {
	geom     *Geometry
	tileSize int
	tilesX   int // tiles per row (east-west)
	tilesZ   int // tile rows (north-south)
	tiles    []Tile

	selector   LODSelector
	hysteresis *AreaHysteresis
	started    bool
}

// NewTileGrid sizes a tile grid to the geometry. The grid must be large
// enough for at least one full tile. A tile spans tileSize quads, so
// adjacent tiles share their edge samples.
func NewTileGrid(geom *Geometry, cfg TileGridConfig) (*TileGrid, error) {
	if cfg.TileSize <= 0 || cfg.TileSize&(cfg.TileSize-1) != 0 {
		return nil, fmt.Errorf("tile size %d is not a power of two: %w", cfg.TileSize, ErrInvalidRange)
	}
	if cfg.DistanceScale <= 0 {
		return nil, fmt.Errorf("distance scale %g: %w", cfg.DistanceScale, ErrInvalidRange)
	}
	grid := geom.Grid()
	tilesX := (grid.Width() - 1) / cfg.TileSize
	tilesZ := (grid.Rows() - 1) / cfg.TileSize
	if tilesX < 1 || tilesZ < 1 {
		return nil, fmt.Errorf("%dx%d grid too small for %d-sample tiles: %w",
			grid.Width(), grid.Rows(), cfg.TileSize, ErrInvalidRange)
	}

	tg := &TileGrid{
		geom:       geom,
		tileSize:   cfg.TileSize,
		tilesX:     tilesX,
		tilesZ:     tilesZ,
		tiles:      make([]Tile, tilesX*tilesZ),
		selector:   NewLODSelector(cfg.TileSize, grid.Scale(), cfg.DistanceScale),
		hysteresis: NewAreaHysteresis(float32(cfg.TileSize) * grid.Scale()),
	}
	for tz := 0; tz < tilesZ; tz++ {
		for tx := 0; tx < tilesX; tx++ {
			tg.tiles[tz*tilesX+tx] = Tile{
				row:      tz,
				col:      tx,
				rowStart: tz * cfg.TileSize,
				colStart: tx * cfg.TileSize,
			}
		}
	}
	return tg, nil
}

// Size returns the tile grid dimensions in tiles.
func (tg *TileGrid) Size() (tilesX, tilesZ int) { return tg.tilesX, tg.tilesZ }

// Tile returns the tile at tile coordinates (row, col), or nil if outside
// the grid.
func (tg *TileGrid) Tile(row, col int) *Tile {
	if row < 0 || col < 0 || row >= tg.tilesZ || col >= tg.tilesX {
		return nil
	}
	return &tg.tiles[row*tg.tilesX+col]
}

// Update runs one frame tick: the hysteresis gate, LoD re-selection where
// due, and regeneration of tiles whose LoD changed. It returns the number
// of tiles regenerated. All work happens synchronously; the returned meshes
// are stable until the next Update call.
//
// A rebuild failure is not fatal: the tile keeps its previous buffers and
// is retried next tick, and the error (wrapping ErrRegenerationDeferred)
// reports which tiles were deferred.
func (tg *TileGrid) Update(camera math.Vec3) (int, error) {
	due := tg.hysteresis.Update(camera.X, camera.Z)

	switch {
	case !tg.started:
		// First tick selects and builds everything.
		tg.started = true
		for i := range tg.tiles {
			tg.selectTile(&tg.tiles[i], camera)
		}
	case due:
		// Re-select only the tile under the camera and its immediate
		// neighbors; distant tiles keep their stride until the camera gets
		// near them.
		row, col := tg.tileAt(camera.X, camera.Z)
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				if t := tg.Tile(row+dz, col+dx); t != nil {
					tg.selectTile(t, camera)
				}
			}
		}
	}

	var rebuilt int
	var deferred []error
	for i := range tg.tiles {
		t := &tg.tiles[i]
		if !t.dirty {
			continue
		}
		if err := tg.regenerate(t); err != nil {
			deferred = append(deferred, fmt.Errorf("tile (%d, %d): %w", t.row, t.col, err))
			continue
		}
		rebuilt++
	}
	if len(deferred) > 0 {
		return rebuilt, fmt.Errorf("%w: %w", ErrRegenerationDeferred, errors.Join(deferred...))
	}
	return rebuilt, nil
}

// ForEachTile yields a transform and mesh buffers for every live tile. The
// sequence is finite and restartable; fn returning false stops early. The
// yielded buffers must not be retained past the frame, since the next
// Update may replace them in place.
func (tg *TileGrid) ForEachTile(fn func(TileInstance) bool) {
	for i := range tg.tiles {
		t := &tg.tiles[i]
		if t.mesh == nil {
			continue
		}
		inst := TileInstance{
			Transform: math.Identity(),
			Mesh:      t.mesh,
			Version:   t.version,
			Row:       t.row,
			Col:       t.col,
		}
		if !fn(inst) {
			return
		}
	}
}

// selectTile assigns the tile's desired stride and marks it dirty when the
// stride changed.
func (tg *TileGrid) selectTile(t *Tile, camera math.Vec3) {
	t.want = tg.selector.Select(camera.XZ(), tg.tileCenter(t))
	if t.want != t.lod {
		t.dirty = true
	}
}

// regenerate rebuilds the tile mesh at its desired stride.
func (tg *TileGrid) regenerate(t *Tile) error {
	if t.want < 1 || tg.tileSize%t.want != 0 {
		return fmt.Errorf("stride %d does not divide tile size %d: %w", t.want, tg.tileSize, ErrInvalidRange)
	}
	side := tg.tileSize/t.want + 1
	mesh, err := tg.geom.BuildMesh(t.rowStart, t.colStart, side, side, t.want)
	if err != nil {
		return err
	}
	t.mesh = mesh
	t.lod = t.want
	t.dirty = false
	t.version++
	return nil
}

// tileCenter returns the world XZ center of a tile.
func (tg *TileGrid) tileCenter(t *Tile) math.Vec2 {
	grid := tg.geom.Grid()
	offX, offZ := grid.Offset()
	half := float32(tg.tileSize) / 2
	return math.Vec2{
		X: (float32(t.colStart)+half)*grid.Scale() + offX,
		Y: (float32(t.rowStart)+half)*RowSpacing*grid.Scale() + offZ,
	}
}

// tileAt returns the tile coordinates under a world XZ position, clamped to
// the grid.
func (tg *TileGrid) tileAt(x, z float32) (row, col int) {
	grid := tg.geom.Grid()
	offX, offZ := grid.Offset()
	tileWorldX := float32(tg.tileSize) * grid.Scale()
	tileWorldZ := float32(tg.tileSize) * RowSpacing * grid.Scale()
	col = int(math32.Floor((x - offX) / tileWorldX))
	row = int(math32.Floor((z - offZ) / tileWorldZ))
	return clamp(row, 0, tg.tilesZ-1), clamp(col, 0, tg.tilesX-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
