package collision

import (
	"math"

	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
)

// CircleCircle tests two circles.
func CircleCircle(a, b Proxy) (Manifold, bool) {
	ca, cb := a.Transform.Position, b.Transform.Position
	ra, rb := a.Shape.Radius(), b.Shape.Radius()

	d := cb.Sub(ca)
	r := ra + rb
	distSq := geom.LenSq(d)
	if distSq >= r*r {
		return Manifold{}, false
	}
	dist := math.Sqrt(distSq)
	depth := r - dist
	if depth <= Epsilon {
		return Manifold{}, false
	}

	normal := mgl64.Vec2{1, 0}
	if dist > geom.Epsilon {
		normal = d.Mul(1 / dist)
	}

	// Midpoint of the overlapping segment along the normal.
	surfaceA := ca.Add(normal.Mul(ra))
	surfaceB := cb.Sub(normal.Mul(rb))
	m := Manifold{Normal: normal, Depth: depth}
	m.add(surfaceA.Add(surfaceB).Mul(0.5), depth)
	return m, true
}

// CirclePolygon tests a circle against a convex polygon using the Voronoi
// regions of the polygon edge nearest the circle centre.
func CirclePolygon(a, b Proxy) (Manifold, bool) {
	radius := a.Shape.Radius()
	poly := b.Shape
	xf := b.Transform

	// Work in the polygon's local frame.
	center := xf.Inverse(a.Transform.Position)

	best := 0
	separation := math.Inf(-1)
	for i := 0; i < poly.VertexCount(); i++ {
		s := poly.Normal(i).Dot(center.Sub(poly.Vertex(i)))
		if s > radius {
			return Manifold{}, false
		}
		if s > separation {
			separation = s
			best = i
		}
	}

	n := poly.VertexCount()
	v1 := poly.Vertex(best)
	v2 := poly.Vertex((best + 1) % n)
	faceNormal := poly.Normal(best)

	var normal, point mgl64.Vec2
	var depth float64

	switch {
	case separation < 0:
		// Centre inside the polygon: push out through the nearest face.
		depth = radius - separation
		normal = faceNormal.Mul(-1)
		point = center.Sub(faceNormal.Mul(separation))

	case center.Sub(v1).Dot(v2.Sub(v1)) <= 0:
		normal, depth = vertexRegion(center, v1, radius, faceNormal)
		point = v1

	case center.Sub(v2).Dot(v1.Sub(v2)) <= 0:
		normal, depth = vertexRegion(center, v2, radius, faceNormal)
		point = v2

	default:
		depth = radius - separation
		normal = faceNormal.Mul(-1)
		point = center.Sub(faceNormal.Mul(separation))
	}

	if depth <= Epsilon {
		return Manifold{}, false
	}

	m := Manifold{Normal: xf.ApplyVec(normal), Depth: depth}
	m.add(xf.Apply(point), depth)
	return m, true
}

// vertexRegion handles a centre closest to a polygon corner. The returned
// normal points from the circle toward the corner.
func vertexRegion(center, vertex mgl64.Vec2, radius float64, faceNormal mgl64.Vec2) (mgl64.Vec2, float64) {
	d := vertex.Sub(center)
	distSq := geom.LenSq(d)
	if distSq >= radius*radius {
		return mgl64.Vec2{}, 0
	}
	dist := math.Sqrt(distSq)
	if dist <= geom.Epsilon {
		return faceNormal.Mul(-1), radius
	}
	return d.Mul(1 / dist), radius - dist
}

// PolygonCircle is CirclePolygon with the roles swapped; the normal is
// flipped so it still points from a toward b.
func PolygonCircle(a, b Proxy) (Manifold, bool) {
	m, ok := CirclePolygon(b, a)
	if !ok {
		return m, false
	}
	m.Normal = m.Normal.Mul(-1)
	return m, true
}
