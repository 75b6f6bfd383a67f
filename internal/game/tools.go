package game

import (
	"math"
	"math/rand"

	"physics2d/internal/geom"
	"physics2d/internal/physics"
	"physics2d/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
)

// Tool is what a left click does in the sandbox.
type Tool int

const (
	ToolCircle Tool = iota
	ToolBox
	ToolPolygon
	ToolAttractor
	ToolExplode
	ToolRemove
	toolCount
)

var toolNames = [toolCount]string{"Circle", "Box", "Polygon", "Attractor", "Explode", "Remove"}

func (t Tool) String() string {
	if t < 0 || t >= toolCount {
		return "Unknown"
	}
	return toolNames[t]
}

// Next cycles to the following tool.
func (t Tool) Next() Tool { return (t + 1) % toolCount }

// SpawnDef describes the body a shape tool drops at p. It reports false for
// tools that do not spawn bodies.
func SpawnDef(tool Tool, p mgl64.Vec2, material string, rng *rand.Rand) (scene.BodyDef, bool) {
	def := scene.BodyDef{
		Position: [2]float64(p),
		Material: material,
		Angle:    rng.Float64() * 2 * math.Pi,
	}
	switch tool {
	case ToolCircle:
		def.Shape = scene.ShapeDef{Kind: "circle", Radius: 0.3 + rng.Float64()*0.5}
		def.Color = "orange"
	case ToolBox:
		def.Shape = scene.ShapeDef{Kind: "box", Width: 0.5 + rng.Float64(), Height: 0.5 + rng.Float64()}
		def.Color = "skyblue"
	case ToolPolygon:
		def.Shape = scene.ShapeDef{Kind: "regular", Sides: 3 + rng.Intn(6), Radius: 0.4 + rng.Float64()*0.5}
		def.Color = "gold"
	default:
		return scene.BodyDef{}, false
	}
	return def, true
}

// Explode pushes every dynamic body within radius of center outward with an
// impulse that falls off linearly with distance. It returns how many bodies
// were pushed.
func Explode(w *physics.World, center mgl64.Vec2, radius, strength float64) int {
	box := geom.NewAABBFromCenter(center, mgl64.Vec2{2 * radius, 2 * radius})
	pushed := 0
	for _, h := range w.QueryAABB(box) {
		b, err := w.Body(h)
		if err != nil || b.IsStatic() {
			continue
		}
		dir, dist := geom.Normalize(b.Position().Sub(center))
		if dist > radius {
			continue
		}
		if dist == 0 {
			dir = mgl64.Vec2{0, 1}
		}
		impulse := dir.Mul(strength * (1 - dist/radius) * b.Mass())
		if err := w.ApplyImpulse(h, impulse); err == nil {
			pushed++
		}
	}
	return pushed
}

// RemoveAt removes the most recently added body under p and records it on
// undo. It reports whether anything was removed.
func RemoveAt(w *physics.World, p mgl64.Vec2, undo *UndoStack) bool {
	hits := w.QueryPoint(p)
	if len(hits) == 0 {
		return false
	}
	h := hits[len(hits)-1]
	b, err := w.Body(h)
	if err != nil {
		return false
	}
	def := b.Definition()
	if err := w.RemoveBody(h); err != nil {
		return false
	}
	undo.PushRemove(def)
	return true
}
