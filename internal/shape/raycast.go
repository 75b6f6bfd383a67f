package shape

import (
	"math"

	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
)

// RayHit is where a ray first meets a shape.
type RayHit struct {
	Point    mgl64.Vec2
	Normal   mgl64.Vec2
	Distance float64
}

// Raycast intersects the ray origin + t*dir, 0 <= t <= maxDistance, with the
// shape placed by xf. dir must be unit length. A ray starting inside the
// shape hits at distance 0 with the normal facing back along the ray.
func (s *Shape) Raycast(xf geom.Transform, origin, dir mgl64.Vec2, maxDistance float64) (RayHit, bool) {
	if s.kind == KindCircle {
		return raycastCircle(xf.Position, s.radius, origin, dir, maxDistance)
	}
	return s.raycastPolygon(xf, origin, dir, maxDistance)
}

func raycastCircle(center mgl64.Vec2, radius float64, origin, dir mgl64.Vec2, maxDistance float64) (RayHit, bool) {
	m := origin.Sub(center)
	c := m.Dot(m) - radius*radius
	if c <= 0 {
		return RayHit{Point: origin, Normal: dir.Mul(-1)}, true
	}
	b := m.Dot(dir)
	if b > 0 {
		return RayHit{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return RayHit{}, false
	}
	t := -b - math.Sqrt(disc)
	if t > maxDistance {
		return RayHit{}, false
	}
	point := origin.Add(dir.Mul(t))
	normal, _ := geom.Normalize(point.Sub(center))
	return RayHit{Point: point, Normal: normal, Distance: t}, true
}

// raycastPolygon clips the ray against every edge half-plane in local space.
func (s *Shape) raycastPolygon(xf geom.Transform, origin, dir mgl64.Vec2, maxDistance float64) (RayHit, bool) {
	p := xf.Inverse(origin)
	d := xf.InverseVec(dir)

	lower, upper := 0.0, maxDistance
	index := -1
	for i, v := range s.vertices {
		n := s.normals[i]
		numerator := n.Dot(v.Sub(p))
		denominator := n.Dot(d)
		if denominator == 0 {
			if numerator < 0 {
				return RayHit{}, false
			}
			continue
		}
		if denominator < 0 && numerator < lower*denominator {
			lower = numerator / denominator
			index = i
		} else if denominator > 0 && numerator < upper*denominator {
			upper = numerator / denominator
		}
		if upper < lower {
			return RayHit{}, false
		}
	}

	if index < 0 {
		return RayHit{Point: origin, Normal: dir.Mul(-1)}, true
	}
	return RayHit{
		Point:    origin.Add(dir.Mul(lower)),
		Normal:   xf.ApplyVec(s.normals[index]),
		Distance: lower,
	}, true
}
