package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)

	if cam.X != 128 || cam.Y != 128 {
		t.Errorf("expected camera at (128, 128), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 || cam.MinZoom != 1.0 {
		t.Errorf("expected zoom 1.0 and min zoom 1.0, got %f / %f", cam.Zoom, cam.MinZoom)
	}
}

func TestGridToScreenFlipsY(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)

	// Cell (0,0) is bottom-left: its centre sits half a point in from the corner
	sx, sy := cam.GridToScreen(0, 0)
	if math.Abs(float64(sx-1.5)) > 0.01 || math.Abs(float64(sy-766.5)) > 0.01 {
		t.Errorf("expected (1.5, 766.5), got (%f, %f)", sx, sy)
	}

	// Top row of the grid maps to the top of the screen
	_, sy = cam.GridToScreen(0, 255)
	if math.Abs(float64(sy-1.5)) > 0.01 {
		t.Errorf("expected top row at y=1.5, got %f", sy)
	}
}

func TestScreenToGridRoundtrip(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)
	cam.SetZoom(2)
	cam.Pan(40, -25)

	testCases := []struct{ sx, sy float32 }{
		{384, 384}, // centre
		{10, 10},   // top-left
		{700, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		gx, gy := cam.ScreenToGrid(tc.sx, tc.sy)
		sx, sy := cam.GridToScreen(gx, gy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, gx, gy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)

	testCases := []struct {
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{0, 767, 0, 0, true},
		{2.9, 765.1, 0, 0, true},
		{3.1, 767, 1, 0, true},
		{767, 1, 255, 255, true},
		{-1, 400, -1, 0, false},
		{400, 770, 0, -1, false},
	}

	for _, tc := range testCases {
		x, y, ok := cam.CellAt(tc.sx, tc.sy)
		if ok != tc.ok {
			t.Errorf("CellAt(%v,%v) ok=%v, want %v", tc.sx, tc.sy, ok, tc.ok)
			continue
		}
		if ok && (x != tc.x || y != tc.y) {
			t.Errorf("CellAt(%v,%v) = (%d,%d), want (%d,%d)", tc.sx, tc.sy, x, y, tc.x, tc.y)
		}
	}
}

func TestZoomClamping(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestPanStaysInsideGrid(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)

	// Fully zoomed out the view cannot move
	cam.Pan(500, 500)
	if cam.X != 128 || cam.Y != 128 {
		t.Errorf("expected centred camera at min zoom, got (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(4)
	cam.Pan(1e6, -1e6)
	minX, minY, maxX, maxY := cam.VisibleGridBounds()
	if maxX > 256.01 || maxY > 256.01 || minX < -0.01 || minY < -0.01 {
		t.Errorf("view left the grid: (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
	if math.Abs(float64(maxX-256)) > 0.01 || math.Abs(float64(maxY-256)) > 0.01 {
		t.Errorf("expected view pinned to the top-right corner, got max (%f,%f)", maxX, maxY)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)
	cam.SetZoom(4)

	if !cam.IsVisible(128, 128, 1) {
		t.Error("centre cell should be visible")
	}
	if cam.IsVisible(0, 0, 2) {
		t.Error("corner cell should be outside a 4x zoomed centred view")
	}
}

func TestReset(t *testing.T) {
	cam := New(768, 768, 256, 256, 3)
	cam.SetZoom(3)
	cam.Pan(100, 100)
	cam.Reset()

	if cam.X != 128 || cam.Y != 128 || cam.Zoom != 1 {
		t.Errorf("expected reset to centre at zoom 1, got (%f,%f) z=%f", cam.X, cam.Y, cam.Zoom)
	}
}
