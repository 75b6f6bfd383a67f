package physics

import (
	"math"

	"physics2d/internal/geom"
	"physics2d/internal/shape"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// BodyType says whether a body responds to forces.
type BodyType uint8

const (
	// Dynamic bodies have finite mass and move under forces and contacts.
	Dynamic BodyType = iota
	// Static bodies have zero inverse mass and never move.
	Static
)

func (t BodyType) String() string {
	if t == Static {
		return "static"
	}
	return "dynamic"
}

// BodyDef describes a body to add to a World. A dynamic body with a zero
// Material gets MaterialDefault. Static bodies use Material as given, so
// a zero Material makes a frictionless wall that does not bounce.
type BodyDef struct {
	Type            BodyType
	Shape           *shape.Shape
	Position        mgl64.Vec2
	Angle           float64
	LinearVelocity  mgl64.Vec2
	AngularVelocity float64
	Material        Material
	LinearDamping   float64
	AngularDamping  float64
	IgnoreGravity   bool
	FixedRotation   bool
	UserData        any
}

// Body is a rigid body owned by a World. Read it through its methods; change
// it through the World so handle checks and wake-ups apply.
type Body struct {
	handle Handle
	typ    BodyType
	shape  *shape.Shape

	transform       geom.Transform
	linearVelocity  mgl64.Vec2
	angularVelocity float64

	force  mgl64.Vec2
	torque float64

	mass, invMass       float64
	inertia, invInertia float64

	density     float64
	friction    float64
	restitution float64

	linearDamping  float64
	angularDamping float64
	ignoreGravity  bool
	fixedRotation  bool

	asleep    bool
	sleepTime float64

	aabb     geom.AABB
	userData any
}

func newBody(def BodyDef) (*Body, error) {
	if def.Shape == nil {
		return nil, ErrNilShape
	}
	mat := def.Material
	if def.Type == Dynamic && mat == (Material{}) {
		mat = MaterialDefault
	}
	if err := mat.Validate(def.Type == Dynamic); err != nil {
		return nil, err
	}
	if !finiteVec(def.Position) || !finiteVec(def.LinearVelocity) ||
		math.IsNaN(def.Angle) || math.IsInf(def.Angle, 0) ||
		math.IsNaN(def.AngularVelocity) || math.IsInf(def.AngularVelocity, 0) {
		return nil, errors.Wrap(ErrInvalidBody, "non-finite transform or velocity")
	}
	if def.LinearDamping < 0 || def.AngularDamping < 0 {
		return nil, errors.Wrap(ErrInvalidBody, "damping must not be negative")
	}

	b := &Body{
		typ:            def.Type,
		shape:          def.Shape,
		transform:      geom.NewTransform(def.Position, def.Angle),
		density:        mat.Density,
		friction:       mat.Friction,
		restitution:    mat.Restitution,
		linearDamping:  def.LinearDamping,
		angularDamping: def.AngularDamping,
		ignoreGravity:  def.IgnoreGravity,
		fixedRotation:  def.FixedRotation,
		userData:       def.UserData,
	}
	if def.Type == Dynamic {
		b.mass, b.inertia = def.Shape.MassData(mat.Density)
		b.invMass = 1 / b.mass
		if !def.FixedRotation && b.inertia > 0 {
			b.invInertia = 1 / b.inertia
		}
		b.linearVelocity = def.LinearVelocity
		if !def.FixedRotation {
			b.angularVelocity = def.AngularVelocity
		}
	}
	b.aabb = b.shape.WorldAABB(b.transform)
	return b, nil
}

// Handle returns the body's handle.
func (b *Body) Handle() Handle { return b.handle }

// Type returns whether the body is static or dynamic.
func (b *Body) Type() BodyType { return b.typ }

// IsStatic reports whether the body never moves.
func (b *Body) IsStatic() bool { return b.typ == Static }

// Shape returns the body's shape.
func (b *Body) Shape() *shape.Shape { return b.shape }

// Transform returns the body's position and angle.
func (b *Body) Transform() geom.Transform { return b.transform }

// Position returns the world position of the body's centroid.
func (b *Body) Position() mgl64.Vec2 { return b.transform.Position }

// Angle returns the body's rotation in radians.
func (b *Body) Angle() float64 { return b.transform.Angle }

// LinearVelocity returns the velocity of the centroid.
func (b *Body) LinearVelocity() mgl64.Vec2 { return b.linearVelocity }

// AngularVelocity returns the spin in radians per second.
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

// Mass returns the mass; zero for static bodies.
func (b *Body) Mass() float64 { return b.mass }

// InvMass returns the inverse mass; zero for static bodies.
func (b *Body) InvMass() float64 { return b.invMass }

// Inertia returns the moment of inertia about the centroid.
func (b *Body) Inertia() float64 { return b.inertia }

// InvInertia returns the inverse moment of inertia.
func (b *Body) InvInertia() float64 { return b.invInertia }

// Friction returns the body's friction coefficient.
func (b *Body) Friction() float64 { return b.friction }

// Restitution returns the body's restitution coefficient.
func (b *Body) Restitution() float64 { return b.restitution }

// IsAwake reports whether the body is being simulated. Static bodies are
// never awake.
func (b *Body) IsAwake() bool { return b.typ == Dynamic && !b.asleep }

// Definition returns a BodyDef that recreates the body in its current state.
func (b *Body) Definition() BodyDef {
	return BodyDef{
		Type:            b.typ,
		Shape:           b.shape,
		Position:        b.transform.Position,
		Angle:           b.transform.Angle,
		LinearVelocity:  b.linearVelocity,
		AngularVelocity: b.angularVelocity,
		Material:        Material{Density: b.density, Friction: b.friction, Restitution: b.restitution},
		LinearDamping:   b.linearDamping,
		AngularDamping:  b.angularDamping,
		IgnoreGravity:   b.ignoreGravity,
		FixedRotation:   b.fixedRotation,
		UserData:        b.userData,
	}
}

// AABB returns the world box computed during the last step.
func (b *Body) AABB() geom.AABB { return b.aabb }

// UserData returns whatever the host attached in BodyDef.
func (b *Body) UserData() any { return b.userData }

// KineticEnergy returns the body's linear plus rotational kinetic energy.
func (b *Body) KineticEnergy() float64 {
	return 0.5*b.mass*b.linearVelocity.Dot(b.linearVelocity) +
		0.5*b.inertia*b.angularVelocity*b.angularVelocity
}

// velocityAt returns the velocity of the body's material at world point p.
func (b *Body) velocityAt(p mgl64.Vec2) mgl64.Vec2 {
	r := p.Sub(b.transform.Position)
	return b.linearVelocity.Add(geom.CrossSV(b.angularVelocity, r))
}

// applyImpulse changes momentum by impulse acting at offset r from the centroid.
func (b *Body) applyImpulse(impulse, r mgl64.Vec2) {
	if !b.IsAwake() {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
	b.angularVelocity += b.invInertia * geom.Cross(r, impulse)
}

func (b *Body) wake() {
	if b.typ == Dynamic {
		b.asleep = false
		b.sleepTime = 0
	}
}

// trySleep advances the sleep timer and puts slow bodies to sleep.
func (b *Body) trySleep(cfg SleepConfig, dt float64) {
	if !b.IsAwake() {
		return
	}
	lin := cfg.LinearThreshold
	if b.linearVelocity.Dot(b.linearVelocity) > lin*lin || math.Abs(b.angularVelocity) > cfg.AngularThreshold {
		b.sleepTime = 0
		return
	}
	b.sleepTime += dt
	if b.sleepTime >= cfg.TimeToSleep {
		b.asleep = true
		b.linearVelocity = mgl64.Vec2{}
		b.angularVelocity = 0
	}
}

func (b *Body) updateAABB() {
	b.aabb = b.shape.WorldAABB(b.transform)
}
