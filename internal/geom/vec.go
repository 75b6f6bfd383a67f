// Package geom holds the small amount of 2D math the engine needs on top of
// mgl64: scalar cross products, perpendiculars, rigid transforms and
// axis-aligned boxes.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for near-zero lengths and overlaps.
const Epsilon = 1e-9

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossSV returns s x v, where s is a scalar along z.
func CrossSV(s float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-s * v[1], s * v[0]}
}

// CrossVS returns v x s, where s is a scalar along z.
func CrossVS(v mgl64.Vec2, s float64) mgl64.Vec2 {
	return mgl64.Vec2{s * v[1], -s * v[0]}
}

// Perp rotates v by +90 degrees.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v[1], v[0]}
}

// LenSq returns the squared length of v.
func LenSq(v mgl64.Vec2) float64 {
	return v.Dot(v)
}

// DistSq returns the squared distance between a and b.
func DistSq(a, b mgl64.Vec2) float64 {
	return LenSq(a.Sub(b))
}

// Normalize returns v scaled to unit length and its original length.
// Vectors shorter than Epsilon come back unchanged with length 0.
func Normalize(v mgl64.Vec2) (mgl64.Vec2, float64) {
	l := v.Len()
	if l < Epsilon {
		return v, 0
	}
	return v.Mul(1 / l), l
}

// Rotate rotates v by angle radians counter-clockwise.
func Rotate(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// IsFinite reports whether both components of v are finite numbers.
func IsFinite(v mgl64.Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsInf(v[0], 0) &&
		!math.IsNaN(v[1]) && !math.IsInf(v[1], 0)
}

// Near reports whether a and b differ by at most tol in each component.
// Unlike mgl64's ApproxEqualThreshold the bound is absolute, so it also
// holds for components that are zero.
func Near(a, b mgl64.Vec2, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol
}
