package physics

import (
	"math"

	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// GravitationalConstant scales attractor pull.
const GravitationalConstant = 1.0

// AttractorMode says which bodies an attractor pulls.
type AttractorMode uint8

const (
	// AttractGlobal pulls every dynamic body.
	AttractGlobal AttractorMode = iota
	// AttractLocal pulls bodies within Radius.
	AttractLocal
)

// Attractor is a point mass pulling dynamic bodies toward Position with
// acceleration G*Mass/d², where d² is clamped to [MinDistance, MaxDistance]
// so the pull neither explodes up close nor vanishes far away.
type Attractor struct {
	Position    mgl64.Vec2
	Mass        float64
	Mode        AttractorMode
	Radius      float64
	MinDistance float64
	MaxDistance float64
}

// AttractorID identifies an attractor in a World.
type AttractorID uint32

// NewAttractor returns a global attractor with the standard mass and range.
func NewAttractor(pos mgl64.Vec2) Attractor {
	return Attractor{
		Position:    pos,
		Mass:        1000,
		Mode:        AttractGlobal,
		MinDistance: 10,
		MaxDistance: 20,
	}
}

// Validate checks that the attractor is usable.
func (a Attractor) Validate() error {
	switch {
	case !finiteVec(a.Position):
		return errors.Wrapf(ErrInvalidAttractor, "position %v", a.Position)
	case !(a.Mass > 0) || math.IsInf(a.Mass, 0):
		return errors.Wrapf(ErrInvalidAttractor, "mass %v must be positive", a.Mass)
	case !(a.MinDistance > 0) || a.MaxDistance < a.MinDistance:
		return errors.Wrapf(ErrInvalidAttractor, "distance range [%v,%v]", a.MinDistance, a.MaxDistance)
	case a.Mode == AttractLocal && !(a.Radius > 0):
		return errors.Wrapf(ErrInvalidAttractor, "local attractor radius %v", a.Radius)
	}
	return nil
}

// acceleration returns the pull felt at p.
func (a Attractor) acceleration(p mgl64.Vec2) mgl64.Vec2 {
	d := a.Position.Sub(p)
	distSq := geom.LenSq(d)
	if a.Mode == AttractLocal && distSq > a.Radius*a.Radius {
		return mgl64.Vec2{}
	}
	dir, l := geom.Normalize(d)
	if l == 0 {
		return mgl64.Vec2{}
	}
	strength := GravitationalConstant * a.Mass / mgl64.Clamp(distSq, a.MinDistance, a.MaxDistance)
	return dir.Mul(strength)
}

type attractorEntry struct {
	id AttractorID
	Attractor
}

// ForceFieldID identifies a world-wide acceleration such as wind.
type ForceFieldID uint32

type forceField struct {
	id    ForceFieldID
	accel mgl64.Vec2
}
