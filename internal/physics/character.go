// Package physics handles character movement: XZ acceleration and
// friction, jumping, gravity, and collision with the terrain floor.
package physics

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terragrid/pkg/math"
)

// jumpFrames is how many consecutive frames jump input keeps accelerating
// the character upward. Both the XZ and jump ramps reach maximum speed
// over this many frames.
const jumpFrames = 5

// Floor reports the terrain surface height under a world XZ position.
// Positions off the terrain return an error and leave the character
// unclamped.
type Floor interface {
	HeightAt(x, z float32) (float32, error)
}

// MovementState holds the character's movement input flags for one frame.
type MovementState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jumping  bool

	// canJump counts the frames this character can keep accelerating
	// while airborne. Refilled on takeoff, cleared by ReleaseJump.
	canJump uint8
}

// ReleaseJump ends the current jump ramp. Call when jump input is
// released so tapping the key again mid-air cannot extend the jump.
func (m *MovementState) ReleaseJump() {
	m.Jumping = false
	m.canJump = 0
}

// CharacterState is a character's physical state: location and velocity,
// plus movement constants. Speeds are in units/frame and accelerations in
// units/frame^2.
type CharacterState struct {
	loc      math.Vec3
	vel      math.Vec3
	maxSpeed float32 // maximum XZ speed
	decel    float32 // XZ deceleration due to friction
	maxJump  float32 // maximum upward speed while jumping
	gravity  float32 // downward acceleration, positive
}

// NewCharacterState creates a character at rest at loc.
func NewCharacterState(loc math.Vec3, maxSpeed, decel, maxJump, gravity float32) *CharacterState {
	return &CharacterState{
		loc:      loc,
		maxSpeed: maxSpeed,
		decel:    decel,
		maxJump:  maxJump,
		gravity:  gravity,
	}
}

// Loc returns the character's location.
func (c *CharacterState) Loc() math.Vec3 { return c.loc }

// Vel returns the character's velocity.
func (c *CharacterState) Vel() math.Vec3 { return c.vel }

// Step advances the character one frame.
//
//   - Accelerates on the XZ plane according to movement input, reaching
//     maximum speed in five frames. dir is the facing direction; strafe
//     input moves perpendicular to it.
//   - Decelerates on the XZ plane due to friction, and caps XZ speed at
//     maxSpeed.
//   - Handles the jump ramp and its timeout, then applies gravity.
//   - Clamps the character to the terrain surface under it.
func (c *CharacterState) Step(dir math.Vec3, movement *MovementState, floor Floor) {
	// Acceleration such that we reach maxSpeed in five frames despite
	// friction.
	accel := c.decel + c.maxSpeed/jumpFrames
	jumpAccel := c.gravity + c.maxJump/jumpFrames

	if movement.Forward {
		c.vel.X += dir.X * accel
		c.vel.Z += dir.Z * accel
	}
	if movement.Backward {
		c.vel.X -= dir.X * accel
		c.vel.Z -= dir.Z * accel
	}
	if movement.Left {
		c.vel.X -= dir.Z * accel
		c.vel.Z += dir.X * accel
	}
	if movement.Right {
		c.vel.X += dir.Z * accel
		c.vel.Z -= dir.X * accel
	}

	floorY, onFloor := c.floorUnder(floor)
	if movement.Jumping {
		if onFloor && c.loc.Y <= floorY {
			movement.canJump = jumpFrames
			c.vel.Y += jumpAccel
		} else if movement.canJump > 0 {
			movement.canJump--
			c.vel.Y += jumpAccel
		}
	}

	// Friction, and the hard speed cap when input outruns it.
	speed := math32.Hypot(c.vel.X, c.vel.Z)
	var multiplier float32
	if speed-c.decel > c.maxSpeed {
		multiplier = c.maxSpeed / speed
	} else if speed > 0 {
		multiplier = math32.Max(0, (speed-c.decel)/speed)
	}
	c.vel.X *= multiplier
	c.vel.Z *= multiplier

	c.vel.Y -= c.gravity

	c.loc = c.loc.Add(c.vel)

	// Collision with the ground. The floor is re-queried at the new XZ
	// position so walking uphill does not clip through the slope.
	if floorY, ok := c.floorUnder(floor); ok && c.loc.Y <= floorY {
		c.loc.Y = floorY
		c.vel.Y = 0
	}
}

func (c *CharacterState) floorUnder(floor Floor) (float32, bool) {
	if floor == nil {
		return 0, true
	}
	y, err := floor.HeightAt(c.loc.X, c.loc.Z)
	if err != nil {
		return 0, false
	}
	return y, true
}
