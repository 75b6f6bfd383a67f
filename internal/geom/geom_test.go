package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTransformRoundTrip(t *testing.T) {
	xf := NewTransform(mgl64.Vec2{3, -2}, 0.7)
	p := mgl64.Vec2{1.5, 4}
	back := xf.Inverse(xf.Apply(p))
	if !Near(back, p, 1e-12) {
		t.Errorf("Expected %v, got %v", p, back)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	got := Rotate(mgl64.Vec2{1, 0}, math.Pi/2)
	if !Near(got, mgl64.Vec2{0, 1}, 1e-12) {
		t.Errorf("Expected (0,1), got %v", got)
	}
	if !Near(Perp(mgl64.Vec2{1, 0}), got, 1e-12) {
		t.Errorf("Perp disagrees with Rotate: %v", Perp(mgl64.Vec2{1, 0}))
	}
}

func TestCross(t *testing.T) {
	if Cross(mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}) != 1 {
		t.Error("Expected x cross y = 1")
	}
	v := mgl64.Vec2{2, 3}
	if Cross(v, CrossSV(1, v)) != LenSq(v) {
		t.Error("Expected v x (1 x v) = |v|²")
	}
}

func TestAABBIntersects(t *testing.T) {
	a := AABB{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{1, 1}}
	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"Overlap", AABB{Min: mgl64.Vec2{0.5, 0.5}, Max: mgl64.Vec2{2, 2}}, true},
		{"Touching", AABB{Min: mgl64.Vec2{1, 0}, Max: mgl64.Vec2{2, 1}}, true},
		{"SeparateX", AABB{Min: mgl64.Vec2{1.1, 0}, Max: mgl64.Vec2{2, 1}}, false},
		{"SeparateY", AABB{Min: mgl64.Vec2{0, -2}, Max: mgl64.Vec2{1, -0.1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAABBFromPoints(t *testing.T) {
	box := NewAABBFromPoints([]mgl64.Vec2{{1, 2}, {-1, 5}, {3, -4}})
	if box.Min != (mgl64.Vec2{-1, -4}) || box.Max != (mgl64.Vec2{3, 5}) {
		t.Errorf("Unexpected box %v", box)
	}
	if !box.Contains(box.Center()) {
		t.Error("Expected box to contain its center")
	}
}
