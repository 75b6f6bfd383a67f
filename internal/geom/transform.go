package geom

import "github.com/go-gl/mathgl/mgl64"

// Transform places a local-space shape in the world: rotate by Angle
// (radians, counter-clockwise) about the local origin, then translate
// by Position.
type Transform struct {
	Position mgl64.Vec2
	Angle    float64
}

// NewTransform creates a transform from a position and angle.
func NewTransform(pos mgl64.Vec2, angle float64) Transform {
	return Transform{Position: pos, Angle: angle}
}

// Rotation returns the rotation matrix for the transform's angle.
func (t Transform) Rotation() mgl64.Mat2 {
	return mgl64.Rotate2D(t.Angle)
}

// Apply maps a local point to world space.
func (t Transform) Apply(p mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation().Mul2x1(p).Add(t.Position)
}

// ApplyVec rotates a local direction into world space.
func (t Transform) ApplyVec(v mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation().Mul2x1(v)
}

// Inverse maps a world point into local space.
func (t Transform) Inverse(p mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation().Transpose().Mul2x1(p.Sub(t.Position))
}

// InverseVec rotates a world direction into local space.
func (t Transform) InverseVec(v mgl64.Vec2) mgl64.Vec2 {
	return t.Rotation().Transpose().Mul2x1(v)
}
