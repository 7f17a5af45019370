// Package vector provides the 2D geometry primitives shared by the car
// simulation and its collision kernel: a cartesian vector, a ray, and an
// oriented rectangle.
package vector

import "math"

// Vector2 is a 2D cartesian vector.
type Vector2 struct {
	X, Y float64
}

// New returns the vector (x, y).
func New(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v+other.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v-other.
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v scaled by s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Div returns v divided by s.
func (v Vector2) Div(s float64) Vector2 {
	return Vector2{v.X / s, v.Y / s}
}

// SqrMagnitude returns the squared magnitude of v. Prefer this over
// Magnitude for comparisons, it avoids a sqrt.
func (v Vector2) SqrMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Magnitude returns the magnitude (length) of v.
func (v Vector2) Magnitude() float64 {
	return math.Sqrt(v.SqrMagnitude())
}

// Normalized returns a new vector with the same direction and a magnitude
// of 1.
func (v Vector2) Normalized() Vector2 {
	return v.Scale(1 / v.Magnitude())
}

// Angle returns the angle of v with regard to the X axis, in radians.
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotated returns v rotated by angleOff radians, consistent with the
// screen-space convention used by UnitFromAngle (Y grows downward).
// Rotated is a proper rotation: v.Rotated(a).Rotated(-a) == v.
func (v Vector2) Rotated(angleOff float64) Vector2 {
	sin, cos := math.Sin(angleOff), math.Cos(angleOff)
	return Vector2{
		X: v.X*cos + v.Y*sin,
		Y: -v.X*sin + v.Y*cos,
	}
}

// UnitFromAngle constructs a unit vector (magnitude 1) at the given angle.
//
// The Y component is negated: this is a screen-space convention (Y grows
// downward) and must be preserved everywhere headings and ray angles are
// turned into vectors, or sensor angles and car heading stop lining up.
func UnitFromAngle(angle float64) Vector2 {
	return Vector2{X: math.Cos(angle), Y: -math.Sin(angle)}
}

// Ray is an origin point and a unit-length direction.
type Ray struct {
	Origin    Vector2
	Direction Vector2
}

// NewRay constructs a Ray at origin pointing along direction, normalizing
// direction if it is not already unit length.
func NewRay(origin, direction Vector2) Ray {
	if direction.SqrMagnitude() != 1.0 {
		direction = direction.Normalized()
	}
	return Ray{Origin: origin, Direction: direction}
}

// Rectangle is an oriented convex quad defined by four ordered vertices.
// Used both for walls and car bounding boxes. Convexity is the caller's
// responsibility; Rectangle itself does not validate it.
type Rectangle struct {
	Verts       [4]Vector2
	SqrHalfSide float64
}

// NewRectangle builds a Rectangle from four ordered vertices and
// precomputes its pruning radius (the squared half-side length), used by
// raycast pruning to cheaply lower-bound distance to the rectangle.
func NewRectangle(v0, v1, v2, v3 Vector2) Rectangle {
	sideA := v0.Sub(v1).Magnitude()
	sideB := v1.Sub(v3).Magnitude()
	half := sideA / 2
	if sideB/2 > half {
		half = sideB / 2
	}
	return Rectangle{
		Verts:       [4]Vector2{v0, v1, v2, v3},
		SqrHalfSide: half * half,
	}
}
