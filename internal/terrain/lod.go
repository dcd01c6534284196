package terrain

import (
	"github.com/Faultbox/terragrid/pkg/math"
)

// LODSelector picks the sampling stride for a tile from its distance to the
// camera. Strides are powers of two in [1, tileSize], so a tile's sample
// count always divides evenly.
type LODSelector struct {
	tileSize  int
	ringWorld float32 // world-space width of one distance ring
}

// NewLODSelector creates a selector for the given tile size (in samples).
// scale is the grid edge length; distanceScale widens or narrows the
// distance rings.
func NewLODSelector(tileSize int, scale, distanceScale float32) LODSelector {
	return LODSelector{
		tileSize:  tileSize,
		ringWorld: float32(tileSize) * scale * distanceScale,
	}
}

// Select returns the stride for a tile centered at center as seen from
// camera. The ring distance d is 1 when the camera is over the tile or its
// immediate ring, and the desired density falls off as d squared, rounded
// down to a power of two. Distance is Chebyshev (axial max) rather than
// Euclidean, which avoids diagonal-direction distortion.
//
// Note that the squared ring distances skip from 1 to 4, so a stride of 2
// is never selected.
func (s LODSelector) Select(camera, center math.Vec2) int {
	d := int(camera.Chebyshev(center)/s.ringWorld) + 1
	if d >= s.tileSize {
		return s.tileSize
	}
	want := d * d
	if want > s.tileSize {
		return s.tileSize
	}
	lod := 1
	for lod*2 <= want {
		lod *= 2
	}
	return lod
}
