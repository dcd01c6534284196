package camera

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestHandleMouseKeepsHeadingNormalized(t *testing.T) {
	c := NewFlyCamera()
	for i := 0; i < 500; i++ {
		c.HandleMouse(7, 0)
	}
	if norm := math32.Hypot(c.Dir.X, c.Dir.Z); math32.Abs(norm-1) > 1e-4 {
		t.Errorf("XZ heading norm after many turns = %g, want 1", norm)
	}
}

func TestHandleMouseIgnoresLargeDelta(t *testing.T) {
	c := NewFlyCamera()
	before := c.Dir
	c.HandleMouse(500, 0)
	c.HandleMouse(0, -500)
	if c.Dir != before {
		t.Errorf("Dir changed on large delta: %v -> %v", before, c.Dir)
	}
}

func TestHandleMouseClampsTilt(t *testing.T) {
	c := NewFlyCamera()
	for i := 0; i < 100; i++ {
		c.HandleMouse(0, -50)
	}
	if c.Dir.Y > 2 {
		t.Errorf("Dir.Y = %g, want clamped at 2", c.Dir.Y)
	}
	for i := 0; i < 200; i++ {
		c.HandleMouse(0, 50)
	}
	if c.Dir.Y < -2 {
		t.Errorf("Dir.Y = %g, want clamped at -2", c.Dir.Y)
	}
}

func TestForwardIgnoresTilt(t *testing.T) {
	c := NewFlyCamera()
	c.HandleMouse(0, -100) // look up
	f := c.Forward()
	if f.Y != 0 {
		t.Errorf("Forward().Y = %g, want 0", f.Y)
	}
	if norm := math32.Hypot(f.X, f.Z); math32.Abs(norm-1) > 1e-5 {
		t.Errorf("Forward() norm = %g, want 1", norm)
	}
}
