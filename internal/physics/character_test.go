package physics

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terragrid/pkg/math"
)

const (
	testMaxSpeed = 0.2
	testDecel    = 0.05
	testMaxJump  = 0.2
	testGravity  = 0.02
)

// flatFloor is a floor at a constant height everywhere.
type flatFloor float32

func (f flatFloor) HeightAt(x, z float32) (float32, error) {
	return float32(f), nil
}

func testCharacter() *CharacterState {
	return NewCharacterState(math.Vec3{}, testMaxSpeed, testDecel, testMaxJump, testGravity)
}

func TestStepAtRestStaysPut(t *testing.T) {
	c := testCharacter()
	var m MovementState
	for i := 0; i < 10; i++ {
		c.Step(math.Vec3{Z: -1}, &m, flatFloor(0))
	}
	if loc := c.Loc(); loc != (math.Vec3{}) {
		t.Errorf("loc after idle frames = %v, want origin", loc)
	}
}

func TestStepReachesMaxSpeedInFiveFrames(t *testing.T) {
	c := testCharacter()
	m := MovementState{Forward: true}
	dir := math.Vec3{Z: -1}

	var prev float32
	for i := 0; i < 5; i++ {
		c.Step(dir, &m, flatFloor(0))
		speed := math32.Hypot(c.Vel().X, c.Vel().Z)
		if speed <= prev {
			t.Fatalf("frame %d: speed %g did not increase from %g", i, speed, prev)
		}
		prev = speed
	}
	if diff := math32.Abs(prev - testMaxSpeed); diff > 1e-6 {
		t.Errorf("speed after 5 frames = %g, want %g", prev, testMaxSpeed)
	}

	// Further input must not push past the cap.
	c.Step(dir, &m, flatFloor(0))
	if speed := math32.Hypot(c.Vel().X, c.Vel().Z); speed > testMaxSpeed+1e-6 {
		t.Errorf("speed after cap = %g, want <= %g", speed, testMaxSpeed)
	}
}

func TestStepFrictionStopsCharacter(t *testing.T) {
	c := testCharacter()
	m := MovementState{Forward: true}
	dir := math.Vec3{Z: -1}
	for i := 0; i < 5; i++ {
		c.Step(dir, &m, flatFloor(0))
	}

	m.Forward = false
	for i := 0; i < 4; i++ {
		c.Step(dir, &m, flatFloor(0))
	}
	if speed := math32.Hypot(c.Vel().X, c.Vel().Z); speed > 1e-6 {
		t.Errorf("speed after coasting = %g, want 0", speed)
	}
}

func TestStepStrafePerpendicular(t *testing.T) {
	c := testCharacter()
	m := MovementState{Right: true}
	// Facing -Z; strafing right moves along -X.
	c.Step(math.Vec3{Z: -1}, &m, flatFloor(0))
	if v := c.Vel(); v.X >= 0 || v.Z != 0 {
		t.Errorf("strafe velocity = %v, want negative X, zero Z", v)
	}
}

func TestStepJumpAndLand(t *testing.T) {
	c := testCharacter()
	m := MovementState{Jumping: true}
	dir := math.Vec3{Z: -1}

	c.Step(dir, &m, flatFloor(0))
	if c.Loc().Y <= 0 {
		t.Fatalf("Y after first jump frame = %g, want > 0", c.Loc().Y)
	}

	// The jump ramp runs out after five airborne frames, then gravity
	// brings the character back down.
	peak := c.Loc().Y
	landed := false
	for i := 0; i < 200; i++ {
		c.Step(dir, &m, flatFloor(0))
		if y := c.Loc().Y; y > peak {
			peak = y
		}
		if c.Loc().Y == 0 && c.Vel().Y == 0 {
			// Grounded again; with the key held the ramp refills and
			// the character takes off next frame.
			landed = true
			break
		}
	}

	if !landed {
		t.Fatalf("character never landed, Y = %g", c.Loc().Y)
	}
	if peak <= 5*testMaxJump/10 {
		t.Errorf("jump peak = %g, suspiciously low", peak)
	}
}

func TestStepReleaseJumpCutsRamp(t *testing.T) {
	held := testCharacter()
	mh := MovementState{Jumping: true}
	released := testCharacter()
	mr := MovementState{Jumping: true}
	dir := math.Vec3{Z: -1}

	held.Step(dir, &mh, flatFloor(0))
	released.Step(dir, &mr, flatFloor(0))
	mr.ReleaseJump()

	for i := 0; i < 4; i++ {
		held.Step(dir, &mh, flatFloor(0))
		released.Step(dir, &mr, flatFloor(0))
	}
	if held.Loc().Y <= released.Loc().Y {
		t.Errorf("held jump Y = %g, released Y = %g, want held higher",
			held.Loc().Y, released.Loc().Y)
	}
}

func TestStepClampsToFloorHeight(t *testing.T) {
	c := NewCharacterState(math.Vec3{Y: 10}, testMaxSpeed, testDecel, testMaxJump, testGravity)
	var m MovementState
	for i := 0; i < 200; i++ {
		c.Step(math.Vec3{Z: -1}, &m, flatFloor(3))
	}
	if y := c.Loc().Y; y != 3 {
		t.Errorf("rest Y over raised floor = %g, want 3", y)
	}
}
