// Package camera provides the first-person camera used to roam terrain.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terragrid/pkg/math"
)

// largeDelta is the mouse delta above which a motion event is ignored.
// Regaining window focus can report the full distance the cursor moved
// while the window was inactive.
const largeDelta = 200

// FlyCamera is a free-look camera: a location plus a facing direction.
// The location typically tracks a character; the direction is driven by
// mouse-look.
type FlyCamera struct {
	Loc math.Vec3
	Dir math.Vec3

	// EyeHeight lifts the view point above Loc, which sits on the ground.
	EyeHeight float32

	// LookSensitivity converts mouse pixels into radians.
	LookSensitivity float32
}

// NewFlyCamera creates a camera at the origin looking down negative Z.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Dir:             math.Vec3{Z: -1},
		EyeHeight:       1.7,
		LookSensitivity: 0.005,
	}
}

// Eye returns the view point in world space.
func (c *FlyCamera) Eye() math.Vec3 {
	return math.Vec3{X: c.Loc.X, Y: c.Loc.Y + c.EyeHeight, Z: c.Loc.Z}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	eye := c.Eye()
	return math.LookAt(eye, eye.Add(c.Dir), math.Vec3{Y: 1})
}

// HandleMouse turns mouse movement into a change of facing direction.
// Horizontal movement rotates the direction on the XZ plane; vertical
// movement tilts it, clamped so the view cannot flip crossing zenith or
// nadir.
func (c *FlyCamera) HandleMouse(deltaX, deltaY float32) {
	if math32.Abs(deltaX) > largeDelta || math32.Abs(deltaY) > largeDelta {
		return
	}

	dh := deltaX * -c.LookSensitivity
	sin, cos := math32.Sincos(dh)
	x := c.Dir.X*cos - c.Dir.Z*sin
	z := c.Dir.X*sin + c.Dir.Z*cos
	// Accumulated error leads to movement glitches without renormalizing.
	norm := math32.Hypot(x, z)
	c.Dir.X = x / norm
	c.Dir.Z = z / norm

	c.Dir.Y -= deltaY * c.LookSensitivity
	if c.Dir.Y > 2 {
		c.Dir.Y = 2
	}
	if c.Dir.Y < -2 {
		c.Dir.Y = -2
	}
}

// Forward returns the facing direction projected onto the XZ plane,
// normalized. Character movement uses this so looking up does not slow
// walking down.
func (c *FlyCamera) Forward() math.Vec3 {
	norm := math32.Hypot(c.Dir.X, c.Dir.Z)
	if norm == 0 {
		return math.Vec3{Z: -1}
	}
	return math.Vec3{X: c.Dir.X / norm, Z: c.Dir.Z / norm}
}
