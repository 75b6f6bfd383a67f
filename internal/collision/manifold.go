// Package collision is the narrow phase: exact contact tests for each pair of
// shape kinds, producing contact manifolds.
package collision

import (
	"physics2d/internal/geom"
	"physics2d/internal/shape"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxContacts is the most contact points a manifold carries.
const MaxContacts = 2

// Epsilon is the smallest penetration reported as a contact. Overlaps at or
// below it count as grazing and produce no manifold.
const Epsilon = 1e-7

// Proxy is a shape placed in the world.
type Proxy struct {
	Shape     *shape.Shape
	Transform geom.Transform
}

// Contact is one world-space contact point and its own penetration depth.
type Contact struct {
	Point mgl64.Vec2
	Depth float64
}

// Manifold describes how two shapes overlap. Normal is a unit vector pointing
// from the first shape toward the second; Depth is the penetration along it.
type Manifold struct {
	Normal   mgl64.Vec2
	Depth    float64
	Contacts [MaxContacts]Contact
	Count    int
}

// Points returns the populated contacts.
func (m *Manifold) Points() []Contact {
	return m.Contacts[:m.Count]
}

func (m *Manifold) add(point mgl64.Vec2, depth float64) {
	if m.Count < MaxContacts {
		m.Contacts[m.Count] = Contact{Point: point, Depth: depth}
		m.Count++
	}
}
