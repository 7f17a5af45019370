package car

import (
	"math"
	"testing"

	"github.com/pthm-cable/neatracer/config"
)

func init() {
	config.MustInit("")
}

// TestFrictionBringsCarToStop covers the friction-dead-zone scenario: a
// car coasting with no drive acceleration must come to an exact stop
// within a handful of ticks, never oscillating around zero.
func TestFrictionBringsCarToStop(t *testing.T) {
	c := New(0, 0)
	c.Velocity = 10

	for i := 0; i < 5; i++ {
		c.SetMoveAcceleration(0)
		c.PhysicsUpdate(0.1)
	}

	if c.Velocity != 0 {
		t.Errorf("velocity after coasting to a stop = %v, want exactly 0", c.Velocity)
	}
}

func TestVelocityNeverExceedsMax(t *testing.T) {
	c := New(0, 0)
	for i := 0; i < 1000; i++ {
		c.SetMoveAcceleration(1e6)
		c.PhysicsUpdate(0.1)
	}
	if math.Abs(c.Velocity) > MaxVelocity() {
		t.Errorf("velocity = %v, exceeds MaxVelocity %v", c.Velocity, MaxVelocity())
	}

	c = New(0, 0)
	for i := 0; i < 1000; i++ {
		c.SetMoveAcceleration(-1e6)
		c.PhysicsUpdate(0.1)
	}
	if math.Abs(c.Velocity) > MaxVelocity() {
		t.Errorf("velocity = %v, exceeds MaxVelocity %v", c.Velocity, MaxVelocity())
	}
}

func TestSightRaysAngles(t *testing.T) {
	c := New(0, 0)
	c.Direction = 0

	rays := c.SightRays()
	angle := rayAngle()
	// Angle(UnitFromAngle(theta)) == -theta (screen-space Y is negated),
	// so a ray built from UnitFromAngle(Direction-rayAngle) reports +rayAngle.
	want := []float64{angle, 0, -angle}
	for i, r := range rays {
		got := r.Direction.Angle()
		if math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("ray %d angle = %v, want %v", i, got, want[i])
		}
		if math.Abs(r.Direction.Magnitude()-1) > 1e-9 {
			t.Errorf("ray %d direction not unit length: %v", i, r.Direction)
		}
	}
}

func TestNormalizedSpeedRange(t *testing.T) {
	c := New(0, 0)
	c.Velocity = MaxVelocity()
	if got := c.NormalizedSpeed(); math.Abs(got-1) > 1e-9 {
		t.Errorf("NormalizedSpeed at max velocity = %v, want 1", got)
	}
	c.Velocity = -MaxVelocity()
	if got := c.NormalizedSpeed(); math.Abs(got-1) > 1e-9 {
		t.Errorf("NormalizedSpeed at -max velocity = %v, want 1", got)
	}
}

func TestBoundingBoxCenteredOnPosition(t *testing.T) {
	c := New(100, 50)
	c.Direction = 0
	box := c.BoundingBox()

	var cx, cy float64
	for _, v := range box.Verts {
		cx += v.X
		cy += v.Y
	}
	cx /= 4
	cy /= 4

	if math.Abs(cx-100) > 1e-9 || math.Abs(cy-50) > 1e-9 {
		t.Errorf("bounding box centroid = (%v, %v), want (100, 50)", cx, cy)
	}
}
