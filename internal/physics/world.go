// Package physics simulates 2D rigid bodies: it integrates forces, finds
// contacts between shapes and resolves them with sequential impulses.
//
// A World is not safe for concurrent use. Own it exclusively, call Step,
// then read results.
package physics

import (
	"math"
	"time"

	"physics2d/internal/collision"
	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ContactPoint is a contact from the last step, kept for debug drawing.
type ContactPoint struct {
	A, B   Handle
	Point  mgl64.Vec2
	Normal mgl64.Vec2
	Depth  float64
}

// Stats summarises the last step.
type Stats struct {
	Bodies    int
	Awake     int
	Pairs     int
	Manifolds int
	Contacts  int
	Steps     uint64
	LastStep  time.Duration
}

type World struct {
	cfg    Config
	broad  BroadPhase
	bodies arena
	solver solver

	attractors  []attractorEntry
	forceFields []forceField
	nextFieldID uint32

	// per-step scratch, reused between steps
	ordered  []*Body
	pairs    []Pair
	contacts []ContactPoint
	stats    Stats

	// Contact tracking for begin/end events
	active      map[pairKey]struct{}
	activeOrder []pairKey
	current     map[pairKey]struct{}

	// ContactBegan fires after a step for each pair that started touching,
	// ContactEnded for each pair that stopped.
	ContactBegan Event[ContactEvent]
	ContactEnded Event[ContactEvent]

	lastLoggedCount int
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	broad := cfg.BroadPhase
	if broad == nil {
		broad = NaiveBroadPhase{}
	}
	return &World{
		cfg:     cfg,
		broad:   broad,
		active:  make(map[pairKey]struct{}),
		current: make(map[pairKey]struct{}),
	}, nil
}

// Config returns the world's current configuration.
func (w *World) Config() Config {
	return w.cfg
}

// SetConfig replaces the step parameters between steps.
func (w *World) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w.cfg = cfg
	if cfg.BroadPhase != nil {
		w.broad = cfg.BroadPhase
	}
	return nil
}

func (w *World) logf(format string, args ...any) {
	if w.cfg.Logger != nil {
		w.cfg.Logger.Printf(format, args...)
	}
}

// Gravity returns the world gravity.
func (w *World) Gravity() mgl64.Vec2 {
	return w.cfg.Gravity
}

// SetGravity changes the world gravity and wakes every body.
func (w *World) SetGravity(g mgl64.Vec2) error {
	if !finiteVec(g) {
		return errors.Wrapf(ErrInvalidConfig, "gravity %v", g)
	}
	w.cfg.Gravity = g
	w.wakeAll()
	return nil
}

func (w *World) wakeAll() {
	for _, idx := range w.bodies.order {
		w.bodies.slots[idx].body.wake()
	}
}

// AddBody admits a body built from def and returns its handle.
func (w *World) AddBody(def BodyDef) (Handle, error) {
	b, err := newBody(def)
	if err != nil {
		return Handle{}, err
	}
	b.handle = w.bodies.insert(b)

	if n := w.bodies.len(); n%100 == 0 && n != w.lastLoggedCount {
		w.lastLoggedCount = n
		w.logf("Physics: %d bodies", n)
	}
	return b.handle, nil
}

// RemoveBody deletes a body. Its handle, and every copy of it, becomes stale.
func (w *World) RemoveBody(h Handle) error {
	_, err := w.bodies.remove(h)
	return err
}

// Clear removes every body. All outstanding handles become stale.
func (w *World) Clear() {
	w.bodies.clear()
	w.contacts = w.contacts[:0]
	for k := range w.active {
		delete(w.active, k)
	}
	w.activeOrder = w.activeOrder[:0]
	w.logf("Physics: world cleared")
}

// Contains reports whether h names a live body.
func (w *World) Contains(h Handle) bool {
	_, err := w.bodies.get(h)
	return err == nil
}

// Body returns the body for h.
func (w *World) Body(h Handle) (*Body, error) {
	return w.bodies.get(h)
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return w.bodies.len()
}

// Handles returns every live handle in insertion order.
func (w *World) Handles() []Handle {
	out := make([]Handle, 0, w.bodies.len())
	for _, idx := range w.bodies.order {
		out = append(out, w.bodies.slots[idx].body.handle)
	}
	return out
}

// Each calls fn for every body in insertion order. fn must not add or
// remove bodies.
func (w *World) Each(fn func(b *Body)) {
	for _, idx := range w.bodies.order {
		fn(w.bodies.slots[idx].body)
	}
}

// Transform returns the position and angle of a body.
func (w *World) Transform(h Handle) (geom.Transform, error) {
	b, err := w.bodies.get(h)
	if err != nil {
		return geom.Transform{}, err
	}
	return b.transform, nil
}

// Velocity returns the linear and angular velocity of a body.
func (w *World) Velocity(h Handle) (mgl64.Vec2, float64, error) {
	b, err := w.bodies.get(h)
	if err != nil {
		return mgl64.Vec2{}, 0, err
	}
	return b.linearVelocity, b.angularVelocity, nil
}

// SetTransform teleports a body. Static bodies may be placed too.
func (w *World) SetTransform(h Handle, xf geom.Transform) error {
	b, err := w.bodies.get(h)
	if err != nil {
		return err
	}
	if !finiteVec(xf.Position) || math.IsNaN(xf.Angle) || math.IsInf(xf.Angle, 0) {
		return errors.Wrapf(ErrInvalidBody, "transform %+v", xf)
	}
	b.transform = xf
	b.updateAABB()
	b.wake()
	return nil
}

// SetVelocity overrides a body's velocity. Static bodies ignore it.
func (w *World) SetVelocity(h Handle, v mgl64.Vec2, angular float64) error {
	b, err := w.bodies.get(h)
	if err != nil {
		return err
	}
	if b.typ == Static {
		return nil
	}
	b.wake()
	b.linearVelocity = v
	if b.invInertia > 0 {
		b.angularVelocity = angular
	}
	return nil
}

// ApplyForce adds a force through the centroid for the next step.
func (w *World) ApplyForce(h Handle, f mgl64.Vec2) error {
	b, err := w.bodies.get(h)
	if err != nil || b.typ == Static {
		return err
	}
	b.wake()
	b.force = b.force.Add(f)
	return nil
}

// ApplyForceAtPoint adds a force acting at world point p for the next step.
func (w *World) ApplyForceAtPoint(h Handle, f, p mgl64.Vec2) error {
	b, err := w.bodies.get(h)
	if err != nil || b.typ == Static {
		return err
	}
	b.wake()
	b.force = b.force.Add(f)
	b.torque += geom.Cross(p.Sub(b.transform.Position), f)
	return nil
}

// ApplyTorque adds a torque for the next step.
func (w *World) ApplyTorque(h Handle, torque float64) error {
	b, err := w.bodies.get(h)
	if err != nil || b.typ == Static {
		return err
	}
	b.wake()
	b.torque += torque
	return nil
}

// ApplyImpulse changes a body's momentum immediately.
func (w *World) ApplyImpulse(h Handle, impulse mgl64.Vec2) error {
	b, err := w.bodies.get(h)
	if err != nil || b.typ == Static {
		return err
	}
	b.wake()
	b.applyImpulse(impulse, mgl64.Vec2{})
	return nil
}

// ApplyImpulseAtPoint changes momentum and spin as if struck at world point p.
func (w *World) ApplyImpulseAtPoint(h Handle, impulse, p mgl64.Vec2) error {
	b, err := w.bodies.get(h)
	if err != nil || b.typ == Static {
		return err
	}
	b.wake()
	b.applyImpulse(impulse, p.Sub(b.transform.Position))
	return nil
}

// AddAttractor registers an attractor.
func (w *World) AddAttractor(a Attractor) (AttractorID, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	w.nextFieldID++
	id := AttractorID(w.nextFieldID)
	w.attractors = append(w.attractors, attractorEntry{id: id, Attractor: a})
	w.wakeAll()
	return id, nil
}

// RemoveAttractor unregisters an attractor.
func (w *World) RemoveAttractor(id AttractorID) error {
	for i, a := range w.attractors {
		if a.id == id {
			w.attractors = append(w.attractors[:i], w.attractors[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownID, "attractor %d", id)
}

// ClearAttractors removes every attractor.
func (w *World) ClearAttractors() {
	w.attractors = w.attractors[:0]
}

// Attractors returns the registered attractors in insertion order.
func (w *World) Attractors() []Attractor {
	out := make([]Attractor, len(w.attractors))
	for i, a := range w.attractors {
		out[i] = a.Attractor
	}
	return out
}

// AddForceField adds a constant acceleration felt by every dynamic body,
// on top of gravity.
func (w *World) AddForceField(accel mgl64.Vec2) (ForceFieldID, error) {
	if !finiteVec(accel) {
		return 0, errors.Wrapf(ErrInvalidConfig, "force field %v", accel)
	}
	w.nextFieldID++
	id := ForceFieldID(w.nextFieldID)
	w.forceFields = append(w.forceFields, forceField{id: id, accel: accel})
	w.wakeAll()
	return id, nil
}

// RemoveForceField removes a force field.
func (w *World) RemoveForceField(id ForceFieldID) error {
	for i, f := range w.forceFields {
		if f.id == id {
			w.forceFields = append(w.forceFields[:i], w.forceFields[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownID, "force field %d", id)
}

// ForceFields returns the accelerations of the force fields in insertion
// order.
func (w *World) ForceFields() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(w.forceFields))
	for i, f := range w.forceFields {
		out[i] = f.accel
	}
	return out
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return errors.Wrapf(ErrInvalidTimestep, "dt %v", dt)
	}
	start := time.Now()

	w.ordered = w.bodies.appendOrdered(w.ordered[:0])
	bodies := w.ordered

	// 1. Integrate forces into velocities
	for _, b := range bodies {
		w.integrateVelocity(b, dt)
	}

	// 2. Broad phase
	for _, b := range bodies {
		b.updateAABB()
	}
	w.pairs = w.broad.Pairs(bodies, w.pairs[:0])

	// 3. Narrow phase
	w.solver.reset()
	w.contacts = w.contacts[:0]
	for k := range w.current {
		delete(w.current, k)
	}
	for _, p := range w.pairs {
		w.collide(bodies[p.A], bodies[p.B])
	}

	// 4. Solve
	w.solver.prepare(&w.cfg, dt)
	for i := 0; i < w.cfg.Iterations; i++ {
		w.solver.solveVelocities()
	}
	w.solver.correctPositions(&w.cfg)

	// 5. Integrate positions
	for _, b := range bodies {
		if b.IsAwake() {
			b.transform.Position = b.transform.Position.Add(b.linearVelocity.Mul(dt))
			b.transform.Angle += b.angularVelocity * dt
		}
	}

	// 6. Clear accumulators
	awake := 0
	for _, b := range bodies {
		b.force = mgl64.Vec2{}
		b.torque = 0
		if w.cfg.Sleep.Enabled {
			b.trySleep(w.cfg.Sleep, dt)
		}
		if b.IsAwake() {
			awake++
		}
	}

	w.dispatchContactEvents()

	w.stats = Stats{
		Bodies:    len(bodies),
		Awake:     awake,
		Pairs:     len(w.pairs),
		Manifolds: len(w.solver.constraints),
		Contacts:  len(w.contacts),
		Steps:     w.stats.Steps + 1,
		LastStep:  time.Since(start),
	}
	return nil
}

// integrateVelocity applies gravity, force fields, attractors and the
// accumulated force and torque with semi-implicit Euler.
func (w *World) integrateVelocity(b *Body, dt float64) {
	if !b.IsAwake() {
		return
	}
	var accel mgl64.Vec2
	if !b.ignoreGravity {
		accel = w.cfg.Gravity
	}
	for _, f := range w.forceFields {
		accel = accel.Add(f.accel)
	}
	for _, a := range w.attractors {
		accel = accel.Add(a.acceleration(b.transform.Position))
	}
	accel = accel.Add(b.force.Mul(b.invMass))

	b.linearVelocity = b.linearVelocity.Add(accel.Mul(dt))
	b.angularVelocity += b.torque * b.invInertia * dt

	if b.linearDamping > 0 {
		b.linearVelocity = b.linearVelocity.Mul(1 / (1 + dt*b.linearDamping))
	}
	if b.angularDamping > 0 {
		b.angularVelocity *= 1 / (1 + dt*b.angularDamping)
	}
}

// collide runs the narrow phase for one candidate pair and queues the
// manifold for the solver.
func (w *World) collide(a, b *Body) {
	// Sleeping and static bodies cannot move each other.
	if !a.IsAwake() && !b.IsAwake() {
		if a.asleep || b.asleep {
			// Keep a sleeping pair's contact alive so no end event fires.
			key := pairKey{a.handle, b.handle}
			if _, ok := w.active[key]; ok {
				w.current[key] = struct{}{}
			}
		}
		return
	}

	m, ok := collision.Collide(
		collision.Proxy{Shape: a.shape, Transform: a.transform},
		collision.Proxy{Shape: b.shape, Transform: b.transform},
	)
	if !ok {
		return
	}

	// Wake sleepers only if the contact is hitting them hard enough
	if a.asleep || b.asleep {
		rel := b.linearVelocity.Sub(a.linearVelocity).Len()
		if rel > 2*w.cfg.Sleep.LinearThreshold {
			a.wake()
			b.wake()
		}
	}

	w.solver.add(a, b, m, &w.cfg)
	w.current[pairKey{a.handle, b.handle}] = struct{}{}
	for _, c := range m.Points() {
		w.contacts = append(w.contacts, ContactPoint{
			A: a.handle, B: b.handle,
			Point: c.Point, Normal: m.Normal, Depth: c.Depth,
		})
	}
}

// dispatchContactEvents compares this step's touching pairs with the last
// step's and fires begin/end events in a deterministic order.
func (w *World) dispatchContactEvents() {
	next := make([]pairKey, 0, len(w.current))

	// Find ended contacts (exit) in the order they began
	for _, key := range w.activeOrder {
		if _, ok := w.current[key]; ok {
			next = append(next, key)
			continue
		}
		w.ContactEnded.Invoke(ContactEvent{A: key.a, B: key.b})
	}

	// Find new contacts (enter) in manifold order
	for i := range w.solver.constraints {
		c := &w.solver.constraints[i]
		key := pairKey{c.a.handle, c.b.handle}
		if _, ok := w.active[key]; ok {
			continue
		}
		next = append(next, key)
		w.ContactBegan.Invoke(ContactEvent{
			A:      key.a,
			B:      key.b,
			Point:  c.manifold.Contacts[0].Point,
			Normal: c.manifold.Normal,
			Depth:  c.manifold.Depth,
			Speed:  c.approachSpeed,
		})
	}

	// Swap buffers
	w.active, w.current = w.current, w.active
	w.activeOrder = next
}

// Contacts returns the contact points found in the last step.
func (w *World) Contacts() []ContactPoint {
	out := make([]ContactPoint, len(w.contacts))
	copy(out, w.contacts)
	return out
}

// Stats returns counters from the last step.
func (w *World) Stats() Stats {
	s := w.stats
	s.Bodies = w.bodies.len()
	return s
}

// LastStepDuration returns how long the last Step took.
func (w *World) LastStepDuration() time.Duration {
	return w.stats.LastStep
}
