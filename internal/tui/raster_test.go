package tui

import (
	"strings"
	"testing"

	"physics2d/internal/physics"
	"physics2d/internal/shape"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRasterizeBodies(t *testing.T) {
	w, err := physics.NewWorld(physics.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	floor, _ := shape.NewBox(20, 1)
	ball, _ := shape.NewCircle(1)
	w.AddBody(physics.BodyDef{Type: physics.Static, Shape: floor, Position: mgl64.Vec2{0, -2.2}})
	w.AddBody(physics.BodyDef{Shape: ball, Position: mgl64.Vec2{0, 1}})

	f := NewFrame(40, 10)
	cam := NewCamera(40, 10, 2)
	Rasterize(f, w, cam, false)

	text := f.String()
	if strings.Count(text, string(RuneStatic)) == 0 {
		t.Errorf("Expected floor cells, got\n%s", text)
	}
	if strings.Count(text, string(RuneCircle)) == 0 {
		t.Errorf("Expected ball cells, got\n%s", text)
	}

	// The ball sits above the floor on screen.
	ballRow, floorRow := -1, -1
	for r, line := range strings.Split(text, "\n") {
		if ballRow < 0 && strings.ContainsRune(line, RuneCircle) {
			ballRow = r
		}
		if floorRow < 0 && strings.ContainsRune(line, RuneStatic) {
			floorRow = r
		}
	}
	if ballRow >= floorRow {
		t.Errorf("Expected ball row %d above floor row %d", ballRow, floorRow)
	}
}

func TestRasterizeTinyBody(t *testing.T) {
	w, _ := physics.NewWorld(physics.DefaultConfig())
	dot, _ := shape.NewCircle(0.01)
	w.AddBody(physics.BodyDef{Shape: dot, Position: mgl64.Vec2{0.3, 0.1}})

	f := NewFrame(20, 10)
	Rasterize(f, w, NewCamera(20, 10, 1), false)
	if strings.Count(f.String(), string(RuneCircle)) != 1 {
		t.Errorf("Expected a single cell for a sub-cell body, got\n%s", f.String())
	}
}

func TestFrameSize(t *testing.T) {
	cols, rows := NewFrame(7, 3).Size()
	if cols != 7 || rows != 3 {
		t.Errorf("Expected 7x3, got %dx%d", cols, rows)
	}
}
