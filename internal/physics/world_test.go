package physics

import (
	"math"
	"testing"

	"physics2d/internal/geom"
	"physics2d/internal/shape"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var bouncy = Material{Density: 1, Friction: 0, Restitution: 1}

func newTestWorld(t *testing.T, gravity mgl64.Vec2) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Gravity = gravity
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func mustCircle(t *testing.T, r float64) *shape.Shape {
	t.Helper()
	s, err := shape.NewCircle(r)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustBox(t *testing.T, w, h float64) *shape.Shape {
	t.Helper()
	s, err := shape.NewBox(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustAdd(t *testing.T, w *World, def BodyDef) Handle {
	t.Helper()
	h, err := w.AddBody(def)
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	return h
}

func addGround(t *testing.T, w *World) Handle {
	t.Helper()
	return mustAdd(t, w, BodyDef{
		Type:     Static,
		Shape:    mustBox(t, 40, 1),
		Position: mgl64.Vec2{0, -0.5},
		Material: MaterialDefault,
	})
}

func TestElasticHeadOnSwapsVelocities(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	a := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{0, 0}, LinearVelocity: mgl64.Vec2{1, 0}, Material: bouncy})
	b := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{1.9, 0}, LinearVelocity: mgl64.Vec2{-1, 0}, Material: bouncy})

	if err := w.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}

	va, _, _ := w.Velocity(a)
	vb, _, _ := w.Velocity(b)
	if !geom.Near(va, mgl64.Vec2{-1, 0}, 1e-9) {
		t.Errorf("Expected A velocity (-1,0), got %v", va)
	}
	if !geom.Near(vb, mgl64.Vec2{1, 0}, 1e-9) {
		t.Errorf("Expected B velocity (1,0), got %v", vb)
	}
}

func TestMovingCircleHandsVelocityToRestingCircle(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	a := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{0, 0}, LinearVelocity: mgl64.Vec2{1, 0}, Material: bouncy})
	b := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{3, 0}, Material: bouncy})

	const dt = 1.0 / 60
	found := false
	for i := 0; i < 300 && !found; i++ {
		if err := w.Step(dt); err != nil {
			t.Fatal(err)
		}
		found = w.Stats().Manifolds > 0
	}
	if !found {
		t.Fatal("Expected a manifold once the circles closed within distance 2")
	}

	va, _, _ := w.Velocity(a)
	vb, _, _ := w.Velocity(b)
	if !geom.Near(va, mgl64.Vec2{0, 0}, 1e-6) {
		t.Errorf("Expected A velocity ~(0,0), got %v", va)
	}
	if !geom.Near(vb, mgl64.Vec2{1, 0}, 1e-6) {
		t.Errorf("Expected B velocity ~(1,0), got %v", vb)
	}
}

func buildPile(t *testing.T) (*World, []Handle) {
	t.Helper()
	w := newTestWorld(t, GravityEarth)
	handles := []Handle{addGround(t, w)}
	for i := 0; i < 12; i++ {
		x := float64(i%4)*1.1 - 1.5
		y := 1 + float64(i/4)*1.2
		var s *shape.Shape
		if i%3 == 0 {
			s = mustCircle(t, 0.45)
		} else {
			s = mustBox(t, 0.9, 0.8)
		}
		handles = append(handles, mustAdd(t, w, BodyDef{
			Shape:    s,
			Position: mgl64.Vec2{x, y},
			Angle:    0.1 * float64(i),
			Material: MaterialStone,
		}))
	}
	return w, handles
}

func TestDeterministicTrajectories(t *testing.T) {
	w1, h1 := buildPile(t)
	w2, h2 := buildPile(t)
	for i := 0; i < 240; i++ {
		if err := w1.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
		if err := w2.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	for i := range h1 {
		b1, _ := w1.Body(h1[i])
		b2, _ := w2.Body(h2[i])
		if b1.Transform() != b2.Transform() ||
			b1.LinearVelocity() != b2.LinearVelocity() ||
			b1.AngularVelocity() != b2.AngularVelocity() {
			t.Errorf("body %d diverged: %+v vs %+v", i, b1.Transform(), b2.Transform())
		}
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	ground := addGround(t, w)

	for i := 0; i < 5; i++ {
		mustAdd(t, w, BodyDef{
			Shape:          mustBox(t, 1, 1),
			Position:       mgl64.Vec2{float64(i) - 2, 2},
			LinearVelocity: mgl64.Vec2{0, -20},
			Material:       MaterialMetal,
		})
	}

	if err := w.ApplyForce(ground, mgl64.Vec2{1e6, 1e6}); err != nil {
		t.Fatal(err)
	}
	if err := w.ApplyImpulse(ground, mgl64.Vec2{0, 1e6}); err != nil {
		t.Fatal(err)
	}
	if err := w.ApplyTorque(ground, 1e6); err != nil {
		t.Fatal(err)
	}
	if err := w.SetVelocity(ground, mgl64.Vec2{5, 5}, 3); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 200; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	b, _ := w.Body(ground)
	if b.Position() != (mgl64.Vec2{0, -0.5}) || b.Angle() != 0 {
		t.Errorf("Static body moved to %v angle %v", b.Position(), b.Angle())
	}
	if b.LinearVelocity() != (mgl64.Vec2{}) || b.AngularVelocity() != 0 {
		t.Errorf("Static body gained velocity %v / %v", b.LinearVelocity(), b.AngularVelocity())
	}
}

func TestBoxComesToRestOnGround(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	addGround(t, w)
	box := mustAdd(t, w, BodyDef{Shape: mustBox(t, 1, 1), Position: mgl64.Vec2{0, 1}})

	for i := 0; i < 240; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	b, _ := w.Body(box)
	if math.Abs(b.Position().Y()-0.5) > 0.05 {
		t.Errorf("Expected box centre near y=0.5, got %v", b.Position())
	}
	if b.LinearVelocity().Len() > 0.2 {
		t.Errorf("Expected box to settle, velocity %v", b.LinearVelocity())
	}
	if math.Abs(b.Angle()) > 0.1 {
		t.Errorf("Expected box to stay flat, angle %v", b.Angle())
	}
}

func TestStaleHandleRejected(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	h := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1)})

	if err := w.RemoveBody(h); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	if _, err := w.Body(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle from Body, got %v", err)
	}
	if err := w.ApplyForce(h, mgl64.Vec2{1, 0}); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle from ApplyForce, got %v", err)
	}
	if err := w.RemoveBody(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle from second RemoveBody, got %v", err)
	}

	// The slot is reused but the old handle stays dead.
	h2 := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1)})
	if h2 == h {
		t.Error("Expected a fresh handle for the reused slot")
	}
	if _, err := w.Transform(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle after slot reuse, got %v", err)
	}
	if !w.Contains(h2) {
		t.Error("Expected new handle to be live")
	}

	if _, err := w.Body(Handle{}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Expected ErrInvalidHandle for zero handle, got %v", err)
	}
}

func TestClearInvalidatesHandles(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	h := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1)})
	w.Clear()
	if w.Len() != 0 {
		t.Errorf("Expected 0 bodies, got %d", w.Len())
	}
	if _, _, err := w.Velocity(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Expected ErrStaleHandle, got %v", err)
	}
}

func TestHandlesKeepInsertionOrder(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	a := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1)})
	b := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1)})
	c := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1)})
	if err := w.RemoveBody(b); err != nil {
		t.Fatal(err)
	}
	d := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1)})

	got := w.Handles()
	want := []Handle{a, c, d}
	if len(got) != len(want) {
		t.Fatalf("Expected %d handles, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestAddBodyValidation(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	if _, err := w.AddBody(BodyDef{}); !errors.Is(err, ErrNilShape) {
		t.Errorf("Expected ErrNilShape, got %v", err)
	}
	_, err := w.AddBody(BodyDef{Shape: mustCircle(t, 1), Material: Material{Density: 0, Friction: 0.5}})
	if !errors.Is(err, ErrInvalidMaterial) {
		t.Errorf("Expected ErrInvalidMaterial, got %v", err)
	}
	_, err = w.AddBody(BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{math.NaN(), 0}})
	if !errors.Is(err, ErrInvalidBody) {
		t.Errorf("Expected ErrInvalidBody, got %v", err)
	}
	// Static bodies do not need density.
	if _, err := w.AddBody(BodyDef{Type: Static, Shape: mustCircle(t, 1), Material: Material{Friction: 0.5}}); err != nil {
		t.Errorf("Expected static body without density to be accepted, got %v", err)
	}
}

func TestStepRejectsBadTimestep(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := w.Step(dt); !errors.Is(err, ErrInvalidTimestep) {
			t.Errorf("dt %v: expected ErrInvalidTimestep, got %v", dt, err)
		}
	}
}

func TestFreeFall(t *testing.T) {
	w := newTestWorld(t, GravityEarth)
	h := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 0.5), Position: mgl64.Vec2{0, 100}})
	const dt = 0.01
	for i := 0; i < 100; i++ {
		if err := w.Step(dt); err != nil {
			t.Fatal(err)
		}
	}
	v, _, _ := w.Velocity(h)
	if math.Abs(v.Y()+9.81) > 1e-9 {
		t.Errorf("Expected vy -9.81 after 1s, got %v", v.Y())
	}
}

func TestApplyForceAtPointSpins(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	h := mustAdd(t, w, BodyDef{Shape: mustBox(t, 2, 2)})
	if err := w.ApplyForceAtPoint(h, mgl64.Vec2{0, 10}, mgl64.Vec2{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := w.Step(0.1); err != nil {
		t.Fatal(err)
	}
	_, omega, _ := w.Velocity(h)
	if omega <= 0 {
		t.Errorf("Expected counter-clockwise spin, got %v", omega)
	}

	// Accumulators are cleared after the step.
	if err := w.Step(0.1); err != nil {
		t.Fatal(err)
	}
	_, omega2, _ := w.Velocity(h)
	if math.Abs(omega2-omega) > 1e-12 {
		t.Errorf("Expected spin to stay at %v without new torque, got %v", omega, omega2)
	}
}

func TestContactEvents(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	a := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), LinearVelocity: mgl64.Vec2{1, 0}, Material: bouncy})
	b := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{3, 0}, Material: bouncy})

	var began, ended []ContactEvent
	w.ContactBegan.AddListener(func(ev ContactEvent) { began = append(began, ev) })
	w.ContactEnded.AddListener(func(ev ContactEvent) { ended = append(ended, ev) })

	for i := 0; i < 200; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	if len(began) != 1 {
		t.Fatalf("Expected 1 begin event, got %d", len(began))
	}
	if began[0].A != a || began[0].B != b {
		t.Errorf("Expected pair (%v,%v), got (%v,%v)", a, b, began[0].A, began[0].B)
	}
	if math.Abs(began[0].Speed-1) > 1e-6 {
		t.Errorf("Expected approach speed 1, got %v", began[0].Speed)
	}
	if len(ended) != 1 {
		t.Errorf("Expected 1 end event, got %d", len(ended))
	}
}

func TestSleepingAndWaking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep.Enabled = true
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}
	addGround(t, w)
	h := mustAdd(t, w, BodyDef{Shape: mustBox(t, 1, 1), Position: mgl64.Vec2{0, 0.5}, Material: Material{Density: 1, Friction: 0.6}})

	for i := 0; i < 300; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	b, _ := w.Body(h)
	if b.IsAwake() {
		t.Fatalf("Expected resting box to fall asleep, velocity %v", b.LinearVelocity())
	}
	if w.Stats().Awake != 0 {
		t.Errorf("Expected 0 awake bodies, got %d", w.Stats().Awake)
	}

	if err := w.ApplyImpulse(h, mgl64.Vec2{0, 5}); err != nil {
		t.Fatal(err)
	}
	if !b.IsAwake() {
		t.Error("Expected impulse to wake the box")
	}
}

func TestAttractorPull(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	h := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 0.5), Position: mgl64.Vec2{5, 0}})
	id, err := w.AddAttractor(NewAttractor(mgl64.Vec2{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Step(0.01); err != nil {
		t.Fatal(err)
	}
	// d² = 25 clamps to 20: 1000/20 = 50 m/s² toward the origin.
	v, _, _ := w.Velocity(h)
	if !geom.Near(v, mgl64.Vec2{-0.5, 0}, 1e-9) {
		t.Errorf("Expected velocity (-0.5,0), got %v", v)
	}

	if err := w.RemoveAttractor(id); err != nil {
		t.Fatal(err)
	}
	if err := w.RemoveAttractor(id); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Expected ErrUnknownID, got %v", err)
	}
	if _, err := w.AddAttractor(Attractor{Mass: 1}); !errors.Is(err, ErrInvalidAttractor) {
		t.Errorf("Expected ErrInvalidAttractor, got %v", err)
	}

	w.AddAttractor(NewAttractor(mgl64.Vec2{1, 1}))
	w.AddAttractor(NewAttractor(mgl64.Vec2{2, 2}))
	w.ClearAttractors()
	if len(w.Attractors()) != 0 {
		t.Errorf("Expected no attractors, got %d", len(w.Attractors()))
	}
}

func TestForceField(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	h := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 0.5)})
	id, err := w.AddForceField(mgl64.Vec2{2, 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Step(0.1); err != nil {
		t.Fatal(err)
	}
	v, _, _ := w.Velocity(h)
	if !geom.Near(v, mgl64.Vec2{0.2, 0}, 1e-12) {
		t.Errorf("Expected velocity (0.2,0), got %v", v)
	}
	if _, err := w.AddForceField(mgl64.Vec2{0, -1}); err != nil {
		t.Fatal(err)
	}
	if fields := w.ForceFields(); len(fields) != 2 || fields[0] != (mgl64.Vec2{2, 0}) || fields[1] != (mgl64.Vec2{0, -1}) {
		t.Errorf("Expected fields in insertion order, got %v", fields)
	}
	if err := w.RemoveForceField(id); err != nil {
		t.Fatal(err)
	}
	if fields := w.ForceFields(); len(fields) != 1 || fields[0] != (mgl64.Vec2{0, -1}) {
		t.Errorf("Expected only (0,-1) left, got %v", fields)
	}
}

func TestRaycastAndQueries(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	ground := addGround(t, w)
	ball := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{0, 3}})

	hit, ok := w.Raycast(mgl64.Vec2{0, 10}, mgl64.Vec2{0, -1}, 20)
	if !ok || hit.Body != ball {
		t.Fatalf("Expected ray to hit the ball first, got %+v %v", hit, ok)
	}
	if math.Abs(hit.Distance-6) > 1e-9 {
		t.Errorf("Expected distance 6, got %v", hit.Distance)
	}

	hit, ok = w.Raycast(mgl64.Vec2{5, 10}, mgl64.Vec2{0, -1}, 20)
	if !ok || hit.Body != ground {
		t.Errorf("Expected ray to hit the ground, got %+v %v", hit, ok)
	}

	if got := w.QueryPoint(mgl64.Vec2{0.2, 3.1}); len(got) != 1 || got[0] != ball {
		t.Errorf("Expected point inside ball, got %v", got)
	}
	if got := w.QueryAABB(geom.AABB{Min: mgl64.Vec2{-1, -1}, Max: mgl64.Vec2{1, 5}}); len(got) != 2 {
		t.Errorf("Expected both bodies in box, got %v", got)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Iterations", func(c *Config) { c.Iterations = 0 }},
		{"Correction", func(c *Config) { c.CorrectionFactor = 1.5 }},
		{"Slop", func(c *Config) { c.Slop = -1 }},
		{"Rule", func(c *Config) { c.FrictionRule = 0 }},
		{"Gravity", func(c *Config) { c.Gravity = mgl64.Vec2{math.Inf(1), 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewWorld(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestCombineRules(t *testing.T) {
	tests := []struct {
		rule CombineRule
		want float64
	}{
		{CombineMin, 0.25},
		{CombineMax, 1},
		{CombineAverage, 0.625},
		{CombineMultiply, 0.25},
		{CombineGeometric, 0.5},
	}
	for _, tt := range tests {
		if got := tt.rule.Combine(0.25, 1); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v: expected %v, got %v", tt.rule, tt.want, got)
		}
		var parsed CombineRule
		if err := parsed.UnmarshalText([]byte(tt.rule.String())); err != nil || parsed != tt.rule {
			t.Errorf("%v did not parse back: %v %v", tt.rule, parsed, err)
		}
	}
	if _, err := ParseCombineRule("median"); err == nil {
		t.Error("Expected unknown rule to fail")
	}
}

func TestEventListenerRemoval(t *testing.T) {
	var e Event[int]
	sum := 0
	id := e.AddListener(func(v int) { sum += v })
	e.AddListener(func(v int) { sum += 10 * v })
	if e.AddListener(nil) != 0 {
		t.Error("Expected nil listener to be ignored")
	}
	e.Invoke(1)
	if sum != 11 {
		t.Errorf("Expected 11, got %d", sum)
	}
	if !e.RemoveListener(id) {
		t.Error("Expected listener to be removed")
	}
	e.Invoke(1)
	if sum != 21 {
		t.Errorf("Expected 21, got %d", sum)
	}
	if e.ListenerCount() != 1 {
		t.Errorf("Expected 1 listener, got %d", e.ListenerCount())
	}
	e.RemoveAllListeners()
	if e.ListenerCount() != 0 {
		t.Errorf("Expected 0 listeners, got %d", e.ListenerCount())
	}
}

func TestBodyDefinitionRecreatesBody(t *testing.T) {
	w := newTestWorld(t, mgl64.Vec2{})
	h := mustAdd(t, w, BodyDef{
		Shape:          mustBox(t, 2, 1),
		Position:       mgl64.Vec2{1, 2},
		Angle:          0.3,
		LinearVelocity: mgl64.Vec2{3, 0},
		Material:       MaterialStone,
		LinearDamping:  0.2,
		IgnoreGravity:  true,
		FixedRotation:  true,
		UserData:       "crate",
	})
	b, _ := w.Body(h)

	h2 := mustAdd(t, w, b.Definition())
	c, _ := w.Body(h2)

	if c.Mass() != b.Mass() || c.InvInertia() != 0 {
		t.Errorf("Expected mass %v and fixed rotation, got mass %v inv inertia %v", b.Mass(), c.Mass(), c.InvInertia())
	}
	if c.Position() != b.Position() || c.Angle() != b.Angle() || c.LinearVelocity() != b.LinearVelocity() {
		t.Errorf("Expected same state, got %v %v %v", c.Position(), c.Angle(), c.LinearVelocity())
	}
	if c.Friction() != MaterialStone.Friction || c.UserData() != "crate" {
		t.Errorf("Expected stone friction and user data, got %v %v", c.Friction(), c.UserData())
	}
}

func TestLinearDampingSlowsBody(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	free := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 0.5), LinearVelocity: mgl64.Vec2{4, 0}})
	damped := mustAdd(t, w, BodyDef{
		Shape:          mustCircle(t, 0.5),
		Position:       mgl64.Vec2{0, 10},
		LinearVelocity: mgl64.Vec2{4, 0},
		LinearDamping:  1,
	})
	for i := 0; i < 60; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	vFree, _, _ := w.Velocity(free)
	vDamped, _, _ := w.Velocity(damped)
	if math.Abs(vFree.X()-4) > 1e-9 {
		t.Errorf("Expected undamped vx 4, got %v", vFree.X())
	}
	if vDamped.X() >= 4 || vDamped.X() <= 0 {
		t.Errorf("Expected damped vx in (0, 4), got %v", vDamped.X())
	}
}

func TestMaterialPresets(t *testing.T) {
	stone, ok := LookupMaterial("stone")
	if !ok || stone != MaterialStone {
		t.Errorf("Expected stone preset, got %+v (%v)", stone, ok)
	}
	if _, ok := LookupMaterial("cheese"); ok {
		t.Errorf("Expected unknown material to be missing")
	}

	w := newTestWorld(t, GravityNone)
	h := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Material: Material{Density: 2, Friction: 0.5}})
	b, err := w.Body(h)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(b.Mass()-2*math.Pi) > 1e-9 {
		t.Errorf("Expected mass 2π, got %v", b.Mass())
	}
	if math.Abs(b.Inertia()-math.Pi) > 1e-9 {
		t.Errorf("Expected inertia π, got %v", b.Inertia())
	}

	bad := Material{Density: 1, Restitution: 1.5}
	if err := bad.Validate(true); !errors.Is(err, ErrInvalidMaterial) {
		t.Errorf("Expected ErrInvalidMaterial, got %v", err)
	}
}

func TestZeroMaterialDefaultsOnlyForDynamicBodies(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	wall := mustAdd(t, w, BodyDef{Type: Static, Shape: mustBox(t, 1, 4)})
	ball := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 0.5), Position: mgl64.Vec2{5, 0}})

	b, _ := w.Body(wall)
	if b.Friction() != 0 || b.Restitution() != 0 {
		t.Errorf("Expected frictionless dead wall, got friction %v restitution %v", b.Friction(), b.Restitution())
	}
	b, _ = w.Body(ball)
	if b.Friction() != MaterialDefault.Friction || b.Restitution() != MaterialDefault.Restitution {
		t.Errorf("Expected default material on ball, got friction %v restitution %v", b.Friction(), b.Restitution())
	}
}

func TestFrictionBoundsSlidingBox(t *testing.T) {
	const mu = 0.25
	w := newTestWorld(t, GravityEarth)
	slick := Material{Density: 1, Friction: mu}
	mustAdd(t, w, BodyDef{Type: Static, Shape: mustBox(t, 40, 1), Position: mgl64.Vec2{0, -0.5}, Material: slick})
	box := mustAdd(t, w, BodyDef{
		Shape:          mustBox(t, 1, 1),
		Position:       mgl64.Vec2{-10, 0.5},
		LinearVelocity: mgl64.Vec2{5, 0},
		Material:       slick,
	})

	const dt = 1.0 / 100
	for i := 0; i < 100; i++ {
		if err := w.Step(dt); err != nil {
			t.Fatal(err)
		}
	}

	// Kinetic friction decelerates at mu*g while sliding.
	v, _, _ := w.Velocity(box)
	want := 5 - mu*9.81
	if math.Abs(v.X()-want) > 0.02 {
		t.Errorf("Expected vx %v after 1s, got %v", want, v.X())
	}
	if math.Abs(v.Y()) > 0.05 {
		t.Errorf("Expected box to stay on the ground, vy %v", v.Y())
	}
}

func TestPositionCorrectionStopsAtSlop(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	still := Material{Density: 1}
	a := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{0, 0}, Material: still})
	b := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{1.5, 0}, Material: still})

	for i := 0; i < 120; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	ba, _ := w.Body(a)
	bb, _ := w.Body(b)
	slop := w.Config().Slop
	if d := bb.Position().Sub(ba.Position()).Len(); math.Abs(d-(2-slop)) > 1e-4 {
		t.Errorf("Expected distance %v, got %v", 2-slop, d)
	}
	// Equal masses share the push evenly.
	if mid := (ba.Position().X() + bb.Position().X()) / 2; math.Abs(mid-0.75) > 1e-9 {
		t.Errorf("Expected midpoint to stay at 0.75, got %v", mid)
	}
	if ba.LinearVelocity() != (mgl64.Vec2{}) || bb.LinearVelocity() != (mgl64.Vec2{}) {
		t.Errorf("Expected correction to leave velocities alone, got %v and %v", ba.LinearVelocity(), bb.LinearVelocity())
	}
}

func TestPositionCorrectionAgainstStaticBody(t *testing.T) {
	w := newTestWorld(t, GravityNone)
	still := Material{Density: 1}
	wall := mustAdd(t, w, BodyDef{Type: Static, Shape: mustCircle(t, 1), Material: still})
	ball := mustAdd(t, w, BodyDef{Shape: mustCircle(t, 1), Position: mgl64.Vec2{1.5, 0}, Material: still})

	for i := 0; i < 120; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	bw, _ := w.Body(wall)
	bb, _ := w.Body(ball)
	if bw.Position() != (mgl64.Vec2{}) {
		t.Errorf("Expected static body to stay at origin, got %v", bw.Position())
	}
	slop := w.Config().Slop
	if math.Abs(bb.Position().X()-(2-slop)) > 1e-4 {
		t.Errorf("Expected ball at x=%v, got %v", 2-slop, bb.Position().X())
	}
}
