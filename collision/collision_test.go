package collision

import (
	"math"
	"testing"

	"github.com/pthm-cable/neatracer/vector"
)

func TestRayRectIntersectionMiss(t *testing.T) {
	ray := vector.NewRay(vector.New(0, 0), vector.New(1, 0))
	rect := vector.NewRectangle(
		vector.New(10, 10), vector.New(20, 10), vector.New(20, 20), vector.New(10, 20),
	)
	_, _, hit := RayRectIntersection(ray, rect)
	if hit {
		t.Error("expected no intersection")
	}
}

func TestRayRectIntersectionHit(t *testing.T) {
	ray := vector.NewRay(vector.New(0, 0), vector.New(1, 0))
	rect := vector.NewRectangle(
		vector.New(10, -5), vector.New(20, -5), vector.New(20, 5), vector.New(10, 5),
	)
	point, dist, hit := RayRectIntersection(ray, rect)
	if !hit {
		t.Fatal("expected an intersection")
	}
	if math.Abs(point.X-10) > 1e-9 || math.Abs(point.Y) > 1e-9 {
		t.Errorf("intersection point = %v, want (10, 0)", point)
	}
	if math.Abs(dist-10) > 1e-9 {
		t.Errorf("distance = %v, want 10", dist)
	}
}

func TestRaySegmentParallelMisses(t *testing.T) {
	ray := vector.NewRay(vector.New(0, 0), vector.New(1, 0))
	// Segment parallel to the ray, denominators are zero: no hit, no panic.
	_, hit := RaySegmentIntersection(ray, vector.New(0, 5), vector.New(10, 5))
	if hit {
		t.Error("parallel segment should not intersect")
	}
}

func TestRectRectIntersectionOverlapping(t *testing.T) {
	a := vector.NewRectangle(vector.New(0, 0), vector.New(2, 0), vector.New(2, 2), vector.New(0, 2))
	b := vector.NewRectangle(vector.New(1, 1), vector.New(3, 1), vector.New(3, 3), vector.New(1, 3))
	if !RectRectIntersection(a, b) {
		t.Error("expected intersection")
	}
	if RectRectIntersection(a, b) != RectRectIntersection(b, a) {
		t.Error("RectRectIntersection should be symmetric")
	}
}

func TestRectRectIntersectionSeparated(t *testing.T) {
	a := vector.NewRectangle(vector.New(0, 0), vector.New(2, 0), vector.New(2, 2), vector.New(0, 2))
	b := vector.NewRectangle(vector.New(3, 3), vector.New(5, 3), vector.New(5, 5), vector.New(3, 5))
	if RectRectIntersection(a, b) {
		t.Error("expected no intersection")
	}
	if RectRectIntersection(a, b) != RectRectIntersection(b, a) {
		t.Error("RectRectIntersection should be symmetric")
	}
}

func TestRayRectDistanceNeverExceedsMax(t *testing.T) {
	ray := vector.NewRay(vector.New(0, 0), vector.New(1, 0))
	rect := vector.NewRectangle(vector.New(5, -5), vector.New(15, -5), vector.New(15, 5), vector.New(5, 5))
	_, dist, hit := RayRectIntersection(ray, rect)
	if !hit {
		t.Fatal("expected a hit")
	}
	const maxLen = 220.0
	if dist > maxLen {
		t.Errorf("distance %v exceeds max ray length %v", dist, maxLen)
	}
}
