// Package shape describes the local-space geometry of a body: a circle or a
// convex polygon, together with the mass properties derived from it.
//
// A Shape is immutable once constructed and safe to read from any goroutine.
package shape

import (
	"fmt"
	"math"

	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Kind tags the variant held by a Shape.
type Kind uint8

const (
	KindCircle Kind = iota
	KindPolygon

	// KindCount is the number of shape kinds; used to size dispatch tables.
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Shape is either a circle centred on the local origin or a convex polygon
// whose centroid sits on the local origin.
type Shape struct {
	kind   Kind
	radius float64

	// polygon data, counter-clockwise
	vertices []mgl64.Vec2
	normals  []mgl64.Vec2
	offset   mgl64.Vec2

	area        float64
	unitInertia float64 // about the centroid, for density 1
	bounds      geom.AABB
	reach       float64 // distance from origin to the farthest point
}

// NewCircle creates a circle of the given radius.
func NewCircle(radius float64) (*Shape, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.Wrapf(ErrInvalidRadius, "radius %v", radius)
	}
	area := math.Pi * radius * radius
	return &Shape{
		kind:        KindCircle,
		radius:      radius,
		area:        area,
		unitInertia: 0.5 * area * radius * radius,
		bounds:      geom.AABB{Min: mgl64.Vec2{-radius, -radius}, Max: mgl64.Vec2{radius, radius}},
		reach:       radius,
	}, nil
}

// NewPolygon validates and builds a convex polygon.
//
// The loop must turn the same way at every vertex; collinear vertices are
// tolerated. Clockwise input is reordered counter-clockwise. The vertices are
// shifted so the centroid lands on the local origin; Offset reports the shift.
//
// Only the turning direction is checked, so a self-intersecting loop that
// always turns the same way (a pentagram) is accepted. Callers must not pass
// non-simple polygons.
func NewPolygon(vertices []mgl64.Vec2) (*Shape, error) {
	n := len(vertices)
	if n < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", n)
	}
	for i, v := range vertices {
		if !geom.IsFinite(v) {
			return nil, errors.Wrapf(ErrInvalidVertex, "vertex %d is %v", i, v)
		}
	}

	// Every corner must turn the same way as the first non-flat corner.
	sign := 0
	for i := 0; i < n; i++ {
		prev := vertices[(i+n-1)%n]
		curr := vertices[i]
		next := vertices[(i+1)%n]
		c := geom.Cross(curr.Sub(prev), next.Sub(curr))
		if math.Abs(c) <= geom.Epsilon {
			continue
		}
		s := 1
		if c < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return nil, errors.Wrapf(ErrConcave, "reflex vertex %d at %v", i, curr)
		}
	}
	if sign == 0 {
		return nil, errors.Wrap(ErrDegenerate, "all vertices are collinear")
	}

	verts := make([]mgl64.Vec2, n)
	if sign > 0 {
		copy(verts, vertices)
	} else {
		for i := range vertices {
			verts[i] = vertices[n-1-i]
		}
	}

	area, centroid := polygonAreaCentroid(verts)
	if area <= geom.Epsilon {
		return nil, errors.Wrapf(ErrDegenerate, "area %v", area)
	}
	for i := range verts {
		verts[i] = verts[i].Sub(centroid)
	}

	normals := make([]mgl64.Vec2, n)
	for i := range verts {
		edge := verts[(i+1)%n].Sub(verts[i])
		nrm, l := geom.Normalize(mgl64.Vec2{edge[1], -edge[0]})
		if l == 0 {
			// Duplicate vertex: borrow the previous edge's normal so the
			// face is harmless in every projection.
			nrm = normals[(i+n-1)%n]
		}
		normals[i] = nrm
	}
	if normals[0] == (mgl64.Vec2{}) {
		normals[0] = normals[n-1]
	}

	reach := 0.0
	for _, v := range verts {
		reach = math.Max(reach, v.Len())
	}

	return &Shape{
		kind:        KindPolygon,
		vertices:    verts,
		normals:     normals,
		offset:      centroid,
		area:        area,
		unitInertia: polygonUnitInertia(verts),
		bounds:      geom.NewAABBFromPoints(verts),
		reach:       reach,
	}, nil
}

// NewBox creates a rectangle of the given full width and height.
func NewBox(width, height float64) (*Shape, error) {
	hw, hh := width/2, height/2
	return NewPolygon([]mgl64.Vec2{
		{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh},
	})
}

// NewRegularPolygon creates a polygon with sides vertices on a circle of the
// given radius.
func NewRegularPolygon(sides int, radius float64) (*Shape, error) {
	if sides < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d sides", sides)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.Wrapf(ErrInvalidRadius, "radius %v", radius)
	}
	verts := make([]mgl64.Vec2, sides)
	step := 2 * math.Pi / float64(sides)
	for i := range verts {
		a := float64(i) * step
		verts[i] = mgl64.Vec2{radius * math.Cos(a), radius * math.Sin(a)}
	}
	return NewPolygon(verts)
}

// polygonAreaCentroid integrates the counter-clockwise loop with the
// shoelace formula.
func polygonAreaCentroid(verts []mgl64.Vec2) (float64, mgl64.Vec2) {
	n := len(verts)
	var area float64
	var c mgl64.Vec2
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		cr := geom.Cross(a, b)
		area += cr
		c = c.Add(a.Add(b).Mul(cr))
	}
	area *= 0.5
	if math.Abs(area) <= geom.Epsilon {
		return area, mgl64.Vec2{}
	}
	return area, c.Mul(1 / (6 * area))
}

// polygonUnitInertia sums the triangle fan about the origin, which must be
// the centroid.
func polygonUnitInertia(verts []mgl64.Vec2) float64 {
	n := len(verts)
	var inertia float64
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		cr := geom.Cross(a, b)
		inertia += cr * (a.Dot(a) + a.Dot(b) + b.Dot(b)) / 12
	}
	return inertia
}

// Kind returns the variant tag.
func (s *Shape) Kind() Kind { return s.kind }

// Radius is the circle radius; zero for polygons.
func (s *Shape) Radius() float64 { return s.radius }

// VertexCount is the number of polygon vertices; zero for circles.
func (s *Shape) VertexCount() int { return len(s.vertices) }

// Vertex returns local vertex i.
func (s *Shape) Vertex(i int) mgl64.Vec2 { return s.vertices[i] }

// Normal returns the outward unit normal of the edge from vertex i to i+1.
func (s *Shape) Normal(i int) mgl64.Vec2 { return s.normals[i] }

// Vertices returns a copy of the local vertices.
func (s *Shape) Vertices() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// Offset is how far the input vertices were shifted to put the centroid
// on the origin.
func (s *Shape) Offset() mgl64.Vec2 { return s.offset }

// Area returns the shape's area.
func (s *Shape) Area() float64 { return s.area }

// Reach is the distance from the centroid to the farthest point of the shape.
func (s *Shape) Reach() float64 { return s.reach }

// LocalBounds returns the box around the shape in local space.
func (s *Shape) LocalBounds() geom.AABB { return s.bounds }

// MassData returns the mass and the moment of inertia about the centroid
// for a uniform density.
func (s *Shape) MassData(density float64) (mass, inertia float64) {
	return s.area * density, s.unitInertia * density
}

// WorldVertices returns the polygon vertices placed by xf.
func (s *Shape) WorldVertices(xf geom.Transform) []mgl64.Vec2 {
	rot := xf.Rotation()
	out := make([]mgl64.Vec2, len(s.vertices))
	for i, v := range s.vertices {
		out[i] = rot.Mul2x1(v).Add(xf.Position)
	}
	return out
}

// WorldNormals returns the polygon edge normals rotated by xf.
func (s *Shape) WorldNormals(xf geom.Transform) []mgl64.Vec2 {
	rot := xf.Rotation()
	out := make([]mgl64.Vec2, len(s.normals))
	for i, n := range s.normals {
		out[i] = rot.Mul2x1(n)
	}
	return out
}

// WorldAABB returns the tight world box for the shape placed by xf.
func (s *Shape) WorldAABB(xf geom.Transform) geom.AABB {
	if s.kind == KindCircle {
		return geom.NewAABBFromCenter(xf.Position, mgl64.Vec2{2 * s.radius, 2 * s.radius})
	}
	return geom.NewAABBFromPoints(s.WorldVertices(xf))
}

// Contains reports whether the world point p lies inside or on the shape.
func (s *Shape) Contains(xf geom.Transform, p mgl64.Vec2) bool {
	local := xf.Inverse(p)
	if s.kind == KindCircle {
		return geom.LenSq(local) <= s.radius*s.radius
	}
	for i, v := range s.vertices {
		if s.normals[i].Dot(local.Sub(v)) > geom.Epsilon {
			return false
		}
	}
	return true
}
