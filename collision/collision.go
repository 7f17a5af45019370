// Package collision implements the ray/segment, ray/rectangle and
// rectangle/rectangle intersection predicates the simulation uses for wall
// collisions and sensor raycasts.
package collision

import (
	"math"

	"github.com/pthm-cable/neatracer/vector"
)

// RaySegmentIntersection finds the point where ray crosses the segment
// (p0, p1), or reports hit=false if no such point exists.
//
// Derived from the standard parametric line-intersection construction
// using (ray.Origin, ray.Origin+ray.Direction) as the ray's second point.
// t parameterizes the ray, u the segment; a hit requires u in [0, 1] and
// t >= 0. The sign/magnitude checks below let us reject the common
// no-hit case without ever performing the division.
func RaySegmentIntersection(ray vector.Ray, p0, p1 vector.Vector2) (point vector.Vector2, hit bool) {
	x1, y1 := ray.Origin.X, ray.Origin.Y
	rayPoint := ray.Origin.Add(ray.Direction)
	x2, y2 := rayPoint.X, rayPoint.Y
	x3, y3 := p0.X, p0.Y
	x4, y4 := p1.X, p1.Y

	tNum := (x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)
	tDen := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	uNum := -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3))
	uDen := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)

	if uDen != 0 && (uNum*uDen) >= 0 && math.Abs(uNum) <= math.Abs(uDen) &&
		tDen != 0 && (tNum*tDen) >= 0 {
		u := uNum / uDen
		return vector.Vector2{X: x3 + u*(x4-x3), Y: y3 + u*(y4-y3)}, true
	}
	return vector.Vector2{}, false
}

// RayRectIntersection finds the closest point where ray crosses one of
// rect's four sides, and the Euclidean distance to it. hit is false if the
// ray crosses none of the sides.
func RayRectIntersection(ray vector.Ray, rect vector.Rectangle) (point vector.Vector2, dist float64, hit bool) {
	var closestSqrDist float64
	found := false

	for i := 0; i < 4; i++ {
		a := rect.Verts[i]
		b := rect.Verts[(i+1)%4]

		p, ok := RaySegmentIntersection(ray, a, b)
		if !ok {
			continue
		}
		sqrDist := p.Sub(ray.Origin).SqrMagnitude()
		if !found || sqrDist < closestSqrDist {
			point = p
			closestSqrDist = sqrDist
			found = true
		}
	}

	if !found {
		return vector.Vector2{}, 0, false
	}
	return point, math.Sqrt(closestSqrDist), true
}

// RectRectIntersection reports whether a and b intersect, using the
// Separating Axis Theorem specialised to quads: for each edge of each
// rectangle, the owning rectangle's opposite vertex determines which side
// of the edge is "inside"; if every vertex of the other rectangle lies on
// the opposite side, that edge separates them.
func RectRectIntersection(a, b vector.Rectangle) bool {
	return !hasSeparatingEdge(a, b) && !hasSeparatingEdge(b, a)
}

// hasSeparatingEdge reports whether one of owner's four edges separates
// owner from other.
func hasSeparatingEdge(owner, other vector.Rectangle) bool {
	for i := 0; i < 4; i++ {
		edgeA := owner.Verts[i]
		edgeB := owner.Verts[(i+1)%4]
		refPoint := owner.Verts[(i+2)%4]
		refSide := pointSideOfLine(refPoint, edgeA, edgeB)

		allOtherSide := true
		for j := 0; j < 4; j++ {
			if pointSideOfLine(other.Verts[j], edgeA, edgeB) == refSide {
				allOtherSide = false
				break
			}
		}
		if allOtherSide {
			return true
		}
	}
	return false
}

// pointSideOfLine reports which side of line (a, b) point lies on. The
// value is only meaningful compared against another point's side.
func pointSideOfLine(point, a, b vector.Vector2) bool {
	return (point.X-a.X)*(b.Y-a.Y)-(point.Y-a.Y)*(b.X-a.X) > 0
}
