package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// worldPolygon caches a polygon's world vertices and edge normals for one test.
type worldPolygon struct {
	verts   []mgl64.Vec2
	normals []mgl64.Vec2
}

func newWorldPolygon(p Proxy) worldPolygon {
	return worldPolygon{
		verts:   p.Shape.WorldVertices(p.Transform),
		normals: p.Shape.WorldNormals(p.Transform),
	}
}

func (p worldPolygon) project(axis mgl64.Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p.verts {
		d := axis.Dot(v)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// mostAligned returns the edge whose normal has the largest dot with dir.
func (p worldPolygon) mostAligned(dir mgl64.Vec2) int {
	best, bestDot := 0, math.Inf(-1)
	for i, n := range p.normals {
		if d := n.Dot(dir); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best
}

func (p worldPolygon) edge(i int) (mgl64.Vec2, mgl64.Vec2) {
	return p.verts[i], p.verts[(i+1)%len(p.verts)]
}

// satAxis is the result of the separating axis search.
type satAxis struct {
	overlap float64
	normal  mgl64.Vec2 // from a toward b
	ownerB  bool
}

// minimumOverlap projects both polygons on every edge normal of both and
// returns the axis of least overlap. ok is false once any axis separates them.
func minimumOverlap(a, b worldPolygon) (best satAxis, ok bool) {
	best.overlap = math.Inf(1)
	for owner, poly := range [2]worldPolygon{a, b} {
		for _, axis := range poly.normals {
			loA, hiA := a.project(axis)
			loB, hiB := b.project(axis)
			forward := hiA - loB  // b lies along +axis
			backward := hiB - loA // b lies along -axis
			if forward <= Epsilon || backward <= Epsilon {
				return satAxis{}, false
			}
			overlap, dir := forward, axis
			if backward < forward {
				overlap, dir = backward, axis.Mul(-1)
			}
			if overlap < best.overlap {
				best = satAxis{overlap: overlap, normal: dir, ownerB: owner == 1}
			}
		}
	}
	return best, true
}

// PolygonPolygon tests two convex polygons with the separating axis theorem,
// then clips the incident edge against the reference edge for up to two
// contact points.
func PolygonPolygon(a, b Proxy) (Manifold, bool) {
	pa := newWorldPolygon(a)
	pb := newWorldPolygon(b)

	axis, ok := minimumOverlap(pa, pb)
	if !ok {
		return Manifold{}, false
	}

	// The reference face belongs to the polygon that owns the axis and faces
	// the other polygon.
	ref, inc := pa, pb
	toward := axis.normal
	if axis.ownerB {
		ref, inc = pb, pa
		toward = axis.normal.Mul(-1)
	}
	refIndex := ref.mostAligned(toward)
	refNormal := ref.normals[refIndex]
	incIndex := inc.mostAligned(refNormal.Mul(-1))

	r1, r2 := ref.edge(refIndex)
	i1, i2 := inc.edge(incIndex)

	m := Manifold{Normal: axis.normal, Depth: axis.overlap}

	tangent := r2.Sub(r1)
	if l := tangent.Len(); l > 0 {
		tangent = tangent.Mul(1 / l)
	}

	points := clip([]mgl64.Vec2{i1, i2}, tangent.Mul(-1), -tangent.Dot(r1))
	points = clip(points, tangent, tangent.Dot(r2))

	front := refNormal.Dot(r1)
	for _, p := range points {
		if sep := refNormal.Dot(p) - front; sep < 0 {
			m.add(p, -sep)
		}
	}

	if m.Count == 0 {
		// Clipping lost everything to round-off; fall back to the deepest
		// incident vertex.
		deepest := i1
		if refNormal.Dot(i2) < refNormal.Dot(i1) {
			deepest = i2
		}
		m.add(deepest, axis.overlap)
	}
	return m, true
}

// clip keeps the part of the segment (or single point) with n·p <= offset.
func clip(points []mgl64.Vec2, n mgl64.Vec2, offset float64) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, 2)
	for _, p := range points {
		if n.Dot(p)-offset <= 0 {
			out = append(out, p)
		}
	}
	if len(points) == 2 && len(out) == 1 {
		p0, p1 := points[0], points[1]
		d0 := n.Dot(p0) - offset
		d1 := n.Dot(p1) - offset
		if d0*d1 < 0 {
			out = append(out, p0.Add(p1.Sub(p0).Mul(d0/(d0-d1))))
		}
	}
	return out
}
