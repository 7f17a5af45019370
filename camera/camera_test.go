package camera

import (
	"math"
	"testing"
)

func TestNewStartsAtOrigin(t *testing.T) {
	cam := New(1280, 720)
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestFollowMovesCamera(t *testing.T) {
	cam := New(1280, 720)
	cam.Follow(300, -50)
	if cam.X != 300 || cam.Y != -50 {
		t.Errorf("expected camera at (300, -50), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720)
	cam.Follow(1000, 1000)

	sx, sy := cam.WorldToScreen(1000, 1000)
	if math.Abs(sx-640) > 0.01 || math.Abs(sy-360) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720)
	cam.Follow(1000, 1000)
	cam.SetZoom(1.5)

	testCases := []struct{ sx, sy float64 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(sx-tc.sx) > 0.01 || math.Abs(sy-tc.sy) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to MinZoom %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720)
	cam.Follow(1000, 1000)

	if !cam.IsVisible(1000, 1000, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(5000, 5000, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(300, 1000, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720)
	cam.Follow(500, 500)
	cam.SetZoom(2.5)

	cam.Reset()

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected position (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
