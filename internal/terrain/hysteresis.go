package terrain

import (
	"github.com/chewxy/math32"
)

// AreaOfRecord is the currently committed hysteresis region: a tile-sized
// square aligned to half-tile grid lines, identified by the world XZ of its
// northwest corner. It covers four half-tile sub-areas.
type AreaOfRecord struct {
	X, Z float32
}

// AreaHysteresis decides when a camera move warrants a LoD re-selection
// pass. The camera is tracked by the half-tile sub-area it occupies; as
// long as that sub-area stays inside the area of record's footprint nothing
// happens, so a camera oscillating across a single half-tile boundary never
// retriggers a pass. When the camera leaves the footprint, the area of
// record advances to the one tile-sized square covering both the previous
// and the new sub-area.
//
// This deliberately approximates "update only when an adjacent tile's LoD
// would actually change": it costs a little unnecessary recomputation but
// is simple to reason about and free of oscillation at tile boundaries.
type AreaHysteresis struct {
	half float32 // half-tile size in world units

	// footprint corner and tracked sub-area, in half-tile cell coordinates
	areaX, areaZ int
	subX, subZ   int

	// last camera position, for resolving ambiguous diagonal transitions by
	// the sign of the most recent displacement
	lastX, lastZ float32

	started bool
}

// NewAreaHysteresis creates hysteresis state for tiles of the given world
// size. One instance gates one TileGrid; it is owned state, never shared.
func NewAreaHysteresis(tileWorld float32) *AreaHysteresis {
	return &AreaHysteresis{half: tileWorld / 2}
}

// Update tracks the camera at world (x, z) and reports whether a LoD
// re-selection pass is due. The first call always reports true.
func (h *AreaHysteresis) Update(x, z float32) bool {
	cx := h.cell(x)
	cz := h.cell(z)

	if !h.started {
		h.started = true
		h.areaX, h.areaZ = cx, cz
		h.subX, h.subZ = cx, cz
		h.lastX, h.lastZ = x, z
		return true
	}

	dx, dz := x-h.lastX, z-h.lastZ
	h.lastX, h.lastZ = x, z

	if cx >= h.areaX && cx <= h.areaX+1 && cz >= h.areaZ && cz <= h.areaZ+1 {
		// Still inside the footprint; only the tracked sub-area moves.
		h.subX, h.subZ = cx, cz
		return false
	}

	h.areaX = advanceCorner(h.areaX, h.subX, cx, dx)
	h.areaZ = advanceCorner(h.areaZ, h.subZ, cz, dz)
	h.subX, h.subZ = cx, cz
	return true
}

// advanceCorner picks the new footprint corner on one axis. The new
// footprint must contain the new sub-area cell; when the previous cell is
// adjacent it also covers that, selecting the single area overlapping both.
// For larger jumps two candidate corners remain, and the sign of the last
// displacement breaks the tie: the footprint trails behind the movement.
func advanceCorner(corner, prev, cur int, delta float32) int {
	switch {
	case cur == prev:
		return corner
	case cur == prev+1 || cur == prev-1:
		return min(prev, cur)
	case delta > 0:
		return cur - 1
	default:
		return cur
	}
}

// Area returns the current area of record.
func (h *AreaHysteresis) Area() AreaOfRecord {
	return AreaOfRecord{
		X: float32(h.areaX) * h.half,
		Z: float32(h.areaZ) * h.half,
	}
}

func (h *AreaHysteresis) cell(v float32) int {
	return int(math32.Floor(v / h.half))
}
