package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size mgl64.Vec2) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// NewAABBFromPoints returns the smallest box containing every point.
// An empty slice yields the zero box.
func NewAABBFromPoints(points []mgl64.Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = mgl64.Vec2{math.Min(box.Min[0], p[0]), math.Min(box.Min[1], p[1])}
		box.Max = mgl64.Vec2{math.Max(box.Max[0], p[0]), math.Max(box.Max[1], p[1])}
	}
	return box
}

// Intersects is the interval test on both axes. Touching boxes intersect.
func (a AABB) Intersects(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1]
}

// Contains reports whether p lies inside or on the box.
func (a AABB) Contains(p mgl64.Vec2) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1]
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: mgl64.Vec2{math.Min(a.Min[0], b.Min[0]), math.Min(a.Min[1], b.Min[1])},
		Max: mgl64.Vec2{math.Max(a.Max[0], b.Max[0]), math.Max(a.Max[1], b.Max[1])},
	}
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float64) AABB {
	m := mgl64.Vec2{margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl64.Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the full width and height.
func (a AABB) Size() mgl64.Vec2 {
	return a.Max.Sub(a.Min)
}
