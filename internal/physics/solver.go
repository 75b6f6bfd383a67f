package physics

import (
	"math"

	"physics2d/internal/collision"
	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
)

type contactPoint struct {
	rA, rB         mgl64.Vec2
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
	normalImpulse  float64
	tangentImpulse float64
}

// contactConstraint is one manifold prepared for the solver.
type contactConstraint struct {
	a, b     *Body
	manifold collision.Manifold

	invMassA, invMassB       float64
	invInertiaA, invInertiaB float64

	tangent       mgl64.Vec2
	friction      float64
	restitution   float64
	approachSpeed float64

	points [collision.MaxContacts]contactPoint
}

// solver resolves contacts with sequential impulses. Impulses are
// accumulated per contact point within a step and start from zero each step.
type solver struct {
	constraints []contactConstraint
}

func (s *solver) reset() {
	s.constraints = s.constraints[:0]
}

func (s *solver) add(a, b *Body, m collision.Manifold, cfg *Config) {
	c := contactConstraint{
		a:           a,
		b:           b,
		manifold:    m,
		tangent:     geom.CrossVS(m.Normal, 1),
		friction:    cfg.FrictionRule.Combine(a.friction, b.friction),
		restitution: cfg.RestitutionRule.Combine(a.restitution, b.restitution),
	}
	if a.IsAwake() {
		c.invMassA, c.invInertiaA = a.invMass, a.invInertia
	}
	if b.IsAwake() {
		c.invMassB, c.invInertiaB = b.invMass, b.invInertia
	}
	s.constraints = append(s.constraints, c)
}

// prepare computes effective masses and restitution targets from the
// velocities at the start of the solve.
func (s *solver) prepare(cfg *Config, dt float64) {
	restingSq := geom.LenSq(cfg.Gravity.Mul(dt)) + cfg.RestingSpeedEpsilon

	for i := range s.constraints {
		c := &s.constraints[i]
		n := c.manifold.Normal
		for j, contact := range c.manifold.Points() {
			p := &c.points[j]
			p.rA = contact.Point.Sub(c.a.transform.Position)
			p.rB = contact.Point.Sub(c.b.transform.Position)

			rnA := geom.Cross(p.rA, n)
			rnB := geom.Cross(p.rB, n)
			k := c.invMassA + c.invMassB + c.invInertiaA*rnA*rnA + c.invInertiaB*rnB*rnB
			if k > 0 {
				p.normalMass = 1 / k
			}

			rtA := geom.Cross(p.rA, c.tangent)
			rtB := geom.Cross(p.rB, c.tangent)
			k = c.invMassA + c.invMassB + c.invInertiaA*rtA*rtA + c.invInertiaB*rtB*rtB
			if k > 0 {
				p.tangentMass = 1 / k
			}

			dv := c.b.velocityAt(contact.Point).Sub(c.a.velocityAt(contact.Point))
			vn := dv.Dot(n)
			c.approachSpeed = math.Max(c.approachSpeed, -vn)
			// Resting contacts do not bounce.
			if vn < 0 && geom.LenSq(dv) >= restingSq {
				p.velocityBias = -c.restitution * vn
			}
		}
	}
}

func (s *solver) solveVelocities() {
	for i := range s.constraints {
		c := &s.constraints[i]
		n := c.manifold.Normal
		for j := 0; j < c.manifold.Count; j++ {
			p := &c.points[j]

			// Normal impulse; separating points are left alone.
			dv := c.relativeVelocity(p)
			if vn := dv.Dot(n); vn < 0 {
				lambda := p.normalMass * (-vn + p.velocityBias)
				old := p.normalImpulse
				p.normalImpulse = math.Max(old+lambda, 0)
				c.apply(p, n.Mul(p.normalImpulse-old))
			}

			// Friction, bounded by the accumulated normal impulse.
			dv = c.relativeVelocity(p)
			vt := dv.Dot(c.tangent)
			lambda := -p.tangentMass * vt
			maxFriction := c.friction * p.normalImpulse
			old := p.tangentImpulse
			p.tangentImpulse = mgl64.Clamp(old+lambda, -maxFriction, maxFriction)
			c.apply(p, c.tangent.Mul(p.tangentImpulse-old))
		}
	}
}

// correctPositions pushes each pair apart along the normal by its
// inverse-mass share of the penetration beyond the slop.
func (s *solver) correctPositions(cfg *Config) {
	for i := range s.constraints {
		c := &s.constraints[i]
		total := c.invMassA + c.invMassB
		if total == 0 {
			continue
		}
		excess := math.Max(c.manifold.Depth-cfg.Slop, 0)
		if excess == 0 {
			continue
		}
		correction := c.manifold.Normal.Mul(excess / total * cfg.CorrectionFactor)
		if c.invMassA > 0 {
			c.a.transform.Position = c.a.transform.Position.Sub(correction.Mul(c.invMassA))
		}
		if c.invMassB > 0 {
			c.b.transform.Position = c.b.transform.Position.Add(correction.Mul(c.invMassB))
		}
	}
}

func (c *contactConstraint) relativeVelocity(p *contactPoint) mgl64.Vec2 {
	va := c.a.linearVelocity.Add(geom.CrossSV(c.a.angularVelocity, p.rA))
	vb := c.b.linearVelocity.Add(geom.CrossSV(c.b.angularVelocity, p.rB))
	return vb.Sub(va)
}

// apply pushes b by impulse and a by its opposite.
func (c *contactConstraint) apply(p *contactPoint, impulse mgl64.Vec2) {
	if c.invMassA > 0 || c.invInertiaA > 0 {
		c.a.linearVelocity = c.a.linearVelocity.Sub(impulse.Mul(c.invMassA))
		c.a.angularVelocity -= c.invInertiaA * geom.Cross(p.rA, impulse)
	}
	if c.invMassB > 0 || c.invInertiaB > 0 {
		c.b.linearVelocity = c.b.linearVelocity.Add(impulse.Mul(c.invMassB))
		c.b.angularVelocity += c.invInertiaB * geom.Cross(p.rB, impulse)
	}
}
