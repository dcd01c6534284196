package terrain

import (
	"fmt"

	"github.com/Faultbox/terragrid/pkg/math"
)

// Triangle is one terrain triangle, in world space.
type Triangle [3]math.Vec3

// HeightAt returns the terrain height under the world-space point (x, z),
// interpolated across the triangle containing it.
func (g *Geometry) HeightAt(x, z float32) (float32, error) {
	tri, u, v, w, err := g.containingTriangle(x, z)
	if err != nil {
		return 0, err
	}
	return u*tri[0].Y + v*tri[1].Y + w*tri[2].Y, nil
}

// TriangleAt returns the terrain triangle under the world-space point (x, z).
func (g *Geometry) TriangleAt(x, z float32) (Triangle, error) {
	tri, _, _, _, err := g.containingTriangle(x, z)
	return tri, err
}

// containingTriangle inverts the vertex position mapping. The row estimate
// from Z is exact up to its boundary, but the column estimate can be off by
// one near the even/odd row boundary because of the parity offset, so every
// triangle incident to the estimated vertex is checked, not just one.
// Returns the triangle whose XZ projection contains the point, with the
// point's barycentric weights in it.
func (g *Geometry) containingTriangle(x, z float32) (Triangle, float32, float32, float32, error) {
	row := g.rowFor(z)
	col := g.colFor(x, row)

	for _, r := range [2]int{row, row - 1} {
		if r < 0 || r+1 >= g.grid.rows {
			continue
		}
		for _, c := range [3]int{col, col - 1, col + 1} {
			if c < 0 || c+1 >= g.grid.width {
				continue
			}
			// The quad anchored at (r, c) splits by row parity, matching
			// BuildMesh.
			a := g.position(g.Index(r, c))
			b := g.position(g.Index(r, c+1))
			s := g.position(g.Index(r+1, c))
			d := g.position(g.Index(r+1, c+1))
			var first, second Triangle
			if r%2 == 0 {
				first = Triangle{a, s, b}
				second = Triangle{b, s, d}
			} else {
				first = Triangle{a, d, b}
				second = Triangle{a, s, d}
			}
			for _, tri := range [2]Triangle{first, second} {
				if u, v, w, ok := barycentricXZ(tri, x, z); ok {
					return tri, u, v, w, nil
				}
			}
		}
	}
	return Triangle{}, 0, 0, 0, fmt.Errorf("no triangle under (%g, %g): %w", x, z, ErrOutOfBounds)
}

// barycentricXZ computes the barycentric weights of (x, z) in the XZ
// projection of tri. ok reports whether the point lies inside (within a
// small tolerance for points on an edge).
func barycentricXZ(tri Triangle, x, z float32) (u, v, w float32, ok bool) {
	const eps = 1e-5

	v0x, v0z := tri[1].X-tri[0].X, tri[1].Z-tri[0].Z
	v1x, v1z := tri[2].X-tri[0].X, tri[2].Z-tri[0].Z
	v2x, v2z := x-tri[0].X, z-tri[0].Z

	d00 := v0x*v0x + v0z*v0z
	d01 := v0x*v1x + v0z*v1z
	d11 := v1x*v1x + v1z*v1z
	d20 := v2x*v0x + v2z*v0z
	d21 := v2x*v1x + v2z*v1z

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return 0, 0, 0, false
	}
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w, u >= -eps && v >= -eps && w >= -eps
}
