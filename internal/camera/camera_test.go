package camera

import (
	"testing"

	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldToScreenFlipsY(t *testing.T) {
	c := New(800, 600, 20)

	got := c.WorldToScreen(mgl64.Vec2{1, 1})
	want := mgl64.Vec2{420, 280}
	if !geom.Near(got, want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	back := c.ScreenToWorld(got)
	if !geom.Near(back, mgl64.Vec2{1, 1}, 1e-9) {
		t.Errorf("Expected round trip to (1,1), got %v", back)
	}
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	c := New(800, 600, 20)
	c.Center = mgl64.Vec2{3, -2}
	screen := mgl64.Vec2{100, 450}
	anchor := c.ScreenToWorld(screen)

	c.ZoomAt(screen, 2)

	if c.Scale != 40 {
		t.Errorf("Expected scale 40, got %v", c.Scale)
	}
	if got := c.ScreenToWorld(screen); !geom.Near(got, anchor, 1e-9) {
		t.Errorf("Expected anchor %v to stay under the cursor, got %v", anchor, got)
	}

	c.ZoomAt(screen, 1000)
	if c.Scale != MaxScale {
		t.Errorf("Expected scale clamped to %v, got %v", MaxScale, c.Scale)
	}
}

func TestPanFollowsDrag(t *testing.T) {
	c := New(800, 600, 10)
	c.Pan(50, 20)
	want := mgl64.Vec2{-5, 2}
	if !geom.Near(c.Center, want, 1e-9) {
		t.Errorf("Expected center %v, got %v", want, c.Center)
	}
}

func TestFitShowsWholeBox(t *testing.T) {
	c := New(800, 600, 10)
	box := geom.AABB{Min: mgl64.Vec2{-10, 0}, Max: mgl64.Vec2{30, 10}}
	c.Fit(box, 0)

	if c.Scale != 20 {
		t.Errorf("Expected scale 20, got %v", c.Scale)
	}
	v := c.Visible()
	if !v.Contains(box.Min) || !v.Contains(box.Max) {
		t.Errorf("Expected %v inside visible %v", box, v)
	}
}
