package terrain

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
)

func TestHeightAtRoundTrip(t *testing.T) {
	geom := testGeometry(t, 6, 6)
	for row := 0; row < 6; row++ {
		for col := 0; col < 6; col++ {
			h := float32(row)*0.25 + float32(col)*0.5
			if err := geom.Grid().SetHeight(row, col, h); err != nil {
				t.Fatalf("SetHeight(%d, %d): %v", row, col, err)
			}
		}
	}

	// Every vertex lies inside some incident triangle, so querying a
	// vertex's own XZ must return its stored height exactly.
	for n := 0; n < geom.VertexCount(); n++ {
		pos, err := geom.VertexPosition(n)
		if err != nil {
			t.Fatalf("VertexPosition(%d): %v", n, err)
		}
		got, err := geom.HeightAt(pos.X, pos.Z)
		if err != nil {
			t.Fatalf("HeightAt(%g, %g): %v", pos.X, pos.Z, err)
		}
		if got != pos.Y {
			t.Errorf("HeightAt(vertex %d) = %v, want %v exactly", n, got, pos.Y)
		}
	}
}

func TestHeightAtInterpolates(t *testing.T) {
	geom := testGeometry(t, 4, 4)
	// Plane y = x: height equals the vertex X position everywhere, so
	// barycentric interpolation must reproduce y = x at interior points.
	for n := 0; n < geom.VertexCount(); n++ {
		pos := geom.position(n)
		if err := geom.Grid().SetHeight(n/4, n%4, pos.X); err != nil {
			t.Fatalf("SetHeight: %v", err)
		}
	}

	points := []struct{ x, z float32 }{
		{0.5, 0.5},
		{1.2, 0.3},
		{1.7, 1.5},
		{2.0, 2.0},
	}
	for _, p := range points {
		got, err := geom.HeightAt(p.x, p.z)
		if err != nil {
			t.Fatalf("HeightAt(%g, %g): %v", p.x, p.z, err)
		}
		if math32.Abs(got-p.x) > 1e-5 {
			t.Errorf("HeightAt(%g, %g) = %v, want %v", p.x, p.z, got, p.x)
		}
	}
}

func TestHeightAtOutOfBounds(t *testing.T) {
	geom := testGeometry(t, 4, 4)

	points := []struct{ x, z float32 }{
		{-5, 0},
		{0, -5},
		{100, 1},
		{1, 100},
	}
	for _, p := range points {
		if _, err := geom.HeightAt(p.x, p.z); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("HeightAt(%g, %g) error = %v, want ErrOutOfBounds", p.x, p.z, err)
		}
	}
}

func TestTriangleAt(t *testing.T) {
	geom := testGeometry(t, 4, 4)

	// A point inside the first even-row quad.
	tri, err := geom.TriangleAt(0.5, 0.2)
	if err != nil {
		t.Fatalf("TriangleAt: %v", err)
	}
	if _, _, _, ok := barycentricXZ(tri, 0.5, 0.2); !ok {
		t.Errorf("TriangleAt(0.5, 0.2) = %v does not contain the point", tri)
	}

	// An odd-row point where the parity offset shifts triangle boundaries.
	tri, err = geom.TriangleAt(1.2, 1.2)
	if err != nil {
		t.Fatalf("TriangleAt odd row: %v", err)
	}
	if _, _, _, ok := barycentricXZ(tri, 1.2, 1.2); !ok {
		t.Errorf("TriangleAt(1.2, 1.2) = %v does not contain the point", tri)
	}
}

func TestTriangleAtParityOffByOne(t *testing.T) {
	geom := testGeometry(t, 6, 6)

	// (2.0, 2.0) belongs to the quad anchored one column west of the naive
	// column estimate; the incident-triangle scan must still find it.
	tri, err := geom.TriangleAt(2.0, 2.0)
	if err != nil {
		t.Fatalf("TriangleAt: %v", err)
	}
	if _, _, _, ok := barycentricXZ(tri, 2.0, 2.0); !ok {
		t.Errorf("TriangleAt(2.0, 2.0) = %v does not contain the point", tri)
	}
}

func TestTriangleAtBoundaryNotch(t *testing.T) {
	geom := testGeometry(t, 4, 4)

	// Odd rows are shifted east, leaving zigzag notches along the west
	// boundary that no triangle covers.
	if _, err := geom.TriangleAt(0.1, 1.2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("TriangleAt(0.1, 1.2) error = %v, want ErrOutOfBounds", err)
	}
}
