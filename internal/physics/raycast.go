package physics

import (
	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
)

type RaycastHit struct {
	Body     Handle
	Point    mgl64.Vec2
	Normal   mgl64.Vec2
	Distance float64
}

// Raycast checks for intersection with all bodies and returns the closest hit
func (w *World) Raycast(origin, direction mgl64.Vec2, maxDistance float64) (RaycastHit, bool) {
	dir, l := geom.Normalize(direction)
	if l == 0 || !(maxDistance > 0) {
		return RaycastHit{}, false
	}

	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, idx := range w.bodies.order {
		b := w.bodies.slots[idx].body
		hitInfo, ok := b.shape.Raycast(b.transform, origin, dir, closestHit.Distance)
		if ok && (!hit || hitInfo.Distance < closestHit.Distance) {
			closestHit = RaycastHit{
				Body:     b.handle,
				Point:    hitInfo.Point,
				Normal:   hitInfo.Normal,
				Distance: hitInfo.Distance,
			}
			hit = true
		}
	}

	return closestHit, hit
}

// QueryPoint returns the bodies containing world point p, in insertion order.
func (w *World) QueryPoint(p mgl64.Vec2) []Handle {
	var out []Handle
	for _, idx := range w.bodies.order {
		b := w.bodies.slots[idx].body
		if b.shape.WorldAABB(b.transform).Contains(p) && b.shape.Contains(b.transform, p) {
			out = append(out, b.handle)
		}
	}
	return out
}

// QueryAABB returns the bodies whose bounding boxes overlap box.
func (w *World) QueryAABB(box geom.AABB) []Handle {
	var out []Handle
	for _, idx := range w.bodies.order {
		b := w.bodies.slots[idx].body
		if b.shape.WorldAABB(b.transform).Intersects(box) {
			out = append(out, b.handle)
		}
	}
	return out
}
