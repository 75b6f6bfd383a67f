package main

import (
	"math"

	"physics2d/internal/physics"
	"physics2d/internal/scene"
	"physics2d/internal/shape"

	"github.com/ByteArena/box2d"
	"github.com/jakecoffman/cp"
)

// resolved is a scene body with its shape and material looked up, ready to
// hand to another engine.
type resolved struct {
	def   physics.BodyDef
	shape *shape.Shape
}

func resolve(defs []scene.BodyDef) []resolved {
	out := make([]resolved, 0, len(defs))
	for _, d := range defs {
		bd, err := scene.BodyDefinition(d)
		if err != nil {
			continue
		}
		out = append(out, resolved{def: bd, shape: bd.Shape})
	}
	return out
}

// --- chipmunk ---

type cpStepper struct {
	space  *cp.Space
	bodies []*cp.Body
}

func newCPStepper(defs []scene.BodyDef) *cpStepper {
	space := cp.NewSpace()
	space.Iterations = iters
	g := physics.GravityEarth
	space.SetGravity(cp.Vector{X: g.X(), Y: g.Y()})
	space.SleepTimeThreshold = 0.5
	st := &cpStepper{space: space}

	for _, r := range resolve(defs) {
		var body *cp.Body
		mat := r.def.Material
		if r.def.Type == physics.Static {
			body = space.AddBody(cp.NewStaticBody())
		} else {
			mass, inertia := r.shape.MassData(mat.Density)
			body = space.AddBody(cp.NewBody(mass, inertia))
			body.SetVelocity(r.def.LinearVelocity.X(), r.def.LinearVelocity.Y())
		}
		st.bodies = append(st.bodies, body)
		body.SetPosition(cp.Vector{X: r.def.Position.X(), Y: r.def.Position.Y()})
		body.SetAngle(r.def.Angle)

		var s *cp.Shape
		if r.shape.Kind() == shape.KindCircle {
			s = cp.NewCircle(body, r.shape.Radius(), cp.Vector{})
		} else {
			verts := r.shape.Vertices()
			cv := make([]cp.Vector, len(verts))
			for i, v := range verts {
				cv[i] = cp.Vector{X: v.X(), Y: v.Y()}
			}
			s = cp.NewPolyShape(body, len(cv), cv, cp.NewTransformIdentity(), 0)
		}
		s.SetFriction(mat.Friction)
		s.SetElasticity(mat.Restitution)
		space.AddShape(s)
	}
	return st
}

func (s *cpStepper) Name() string { return "cp" }

func (s *cpStepper) Step(dt float64) { s.space.Step(dt) }

func (s *cpStepper) Pairs() int {
	n := 0
	for _, b := range s.bodies {
		b.EachArbiter(func(*cp.Arbiter) { n++ })
	}
	// Each arbiter is seen from both bodies.
	return n / 2
}

// --- box2d ---

type box2dStepper struct {
	world box2d.B2World
}

func newBox2DStepper(defs []scene.BodyDef) *box2dStepper {
	g := physics.GravityEarth
	world := box2d.MakeB2World(box2d.MakeB2Vec2(g.X(), g.Y()))

	for _, r := range resolve(defs) {
		bd := box2d.MakeB2BodyDef()
		if r.def.Type == physics.Dynamic {
			bd.Type = box2d.B2BodyType.B2_dynamicBody
		}
		bd.Position = box2d.MakeB2Vec2(r.def.Position.X(), r.def.Position.Y())
		bd.Angle = r.def.Angle
		bd.LinearVelocity = box2d.MakeB2Vec2(r.def.LinearVelocity.X(), r.def.LinearVelocity.Y())
		body := world.CreateBody(&bd)

		fd := box2d.MakeB2FixtureDef()
		fd.Density = r.def.Material.Density
		fd.Friction = r.def.Material.Friction
		fd.Restitution = r.def.Material.Restitution
		if r.shape.Kind() == shape.KindCircle {
			c := box2d.MakeB2CircleShape()
			c.M_radius = r.shape.Radius()
			fd.Shape = &c
		} else {
			verts := r.shape.Vertices()
			// box2d caps polygons at 8 vertices.
			n := int(math.Min(float64(len(verts)), 8))
			bv := make([]box2d.B2Vec2, n)
			for i := 0; i < n; i++ {
				bv[i] = box2d.MakeB2Vec2(verts[i].X(), verts[i].Y())
			}
			p := box2d.MakeB2PolygonShape()
			p.Set(bv, n)
			fd.Shape = &p
		}
		body.CreateFixtureFromDef(&fd)
	}
	return &box2dStepper{world: world}
}

func (s *box2dStepper) Name() string { return "box2d" }

func (s *box2dStepper) Step(dt float64) { s.world.Step(dt, iters, 3) }

func (s *box2dStepper) Pairs() int {
	n := 0
	for c := s.world.GetContactList(); c != nil; c = c.GetNext() {
		if c.IsTouching() {
			n++
		}
	}
	return n
}
