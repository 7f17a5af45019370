// Package car implements the kinematics, sensors and bounding box of a
// single car in the driving simulation.
package car

import (
	"math"

	"github.com/pthm-cable/neatracer/config"
	"github.com/pthm-cable/neatracer/vector"
)

// velocitySnapThreshold is the numeric dead-zone: velocities with a
// smaller absolute value snap to zero to avoid floating-point drift.
// Not config-driven: it is a numerical-stability constant, not an
// observable tuning knob.
const velocitySnapThreshold = 0.9

// MaxVelocity returns the configured velocity clamp.
func MaxVelocity() float64 { return config.Cfg().Sim.MaxVelocity }

// FrictionAccel returns the configured friction deceleration magnitude.
func FrictionAccel() float64 { return config.Cfg().Sim.FrictionAccel }

// BoundingBoxWidth returns the configured bounding box width.
func BoundingBoxWidth() float64 { return config.Cfg().Sim.BoundingBoxWidth }

// BoundingBoxHeight returns the configured bounding box height.
func BoundingBoxHeight() float64 { return config.Cfg().Sim.BoundingBoxHeight }

// rayAngle returns the offset of the two outer sensor rays from heading,
// in radians.
func rayAngle() float64 { return config.Cfg().Sim.RayAngleDegrees * math.Pi / 180 }

// Car holds the kinematic state of a single car: position, heading
// (radians), and signed scalar velocity/acceleration.
type Car struct {
	Position     vector.Vector2
	Direction    float64 // heading, in radians
	Velocity     float64 // signed scalar along Direction
	Acceleration float64 // signed scalar along Direction
}

// New constructs a car at (x, y) with heading 0 and zero velocity.
func New(x, y float64) *Car {
	return &Car{Position: vector.New(x, y)}
}

// PhysicsUpdate integrates position and velocity by dt seconds, then
// clamps velocity to MaxVelocity and snaps near-zero velocities to zero.
func (c *Car) PhysicsUpdate(dt float64) {
	c.Position = c.Position.Add(vector.UnitFromAngle(c.Direction).Scale(dt * c.Velocity))
	c.Velocity += dt * c.Acceleration

	if math.Abs(c.Velocity) < velocitySnapThreshold {
		c.Velocity = 0
	}
	if maxVelocity := MaxVelocity(); math.Abs(c.Velocity) > maxVelocity {
		c.Velocity = math.Copysign(maxVelocity, c.Velocity)
	}
}

// SetMoveAcceleration stores acceleration for the next PhysicsUpdate and
// applies friction: a deceleration of magnitude up to FrictionAccel,
// opposing the sign of the current velocity. Friction does nothing at
// zero velocity.
func (c *Car) SetMoveAcceleration(acceleration float64) {
	c.Acceleration = acceleration

	if c.Velocity != 0 {
		frictionMagnitude := math.Min(math.Abs(c.Velocity), FrictionAccel())
		c.Acceleration -= math.Copysign(frictionMagnitude, c.Velocity)
	}
}

// SightRays returns the car's three sensor rays, at heading offsets of
// -rayAngle, 0 and +rayAngle (configured via ray_angle_degrees).
func (c *Car) SightRays() [3]vector.Ray {
	angle := rayAngle()
	return [3]vector.Ray{
		vector.NewRay(c.Position, vector.UnitFromAngle(c.Direction-angle)),
		vector.NewRay(c.Position, vector.UnitFromAngle(c.Direction)),
		vector.NewRay(c.Position, vector.UnitFromAngle(c.Direction+angle)),
	}
}

// BoundingBox returns the four corners of the car's configured bounding
// rectangle, rotated by heading and centred at Position. Expensive:
// callers should compute it once per tick and reuse the result.
func (c *Car) BoundingBox() vector.Rectangle {
	halfW := BoundingBoxWidth() / 2
	halfH := BoundingBoxHeight() / 2

	corner := func(x, y float64) vector.Vector2 {
		return vector.New(x, y).Rotated(c.Direction).Add(c.Position)
	}

	return vector.NewRectangle(
		corner(halfW, halfH),
		corner(halfW, -halfH),
		corner(-halfW, -halfH),
		corner(-halfW, halfH),
	)
}

// NormalizedSpeed returns |Velocity| / MaxVelocity, in [0, 1].
func (c *Car) NormalizedSpeed() float64 {
	return math.Abs(c.Velocity) / MaxVelocity()
}
