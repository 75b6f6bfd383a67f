package scene

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

type generator func(rng *rand.Rand, count int) []BodyDef

var generators = map[string]generator{
	"default":   generateDefault,
	"pyramid":   generatePyramid,
	"rain":      generateRain,
	"container": generateContainer,
	"mixed":     generateMixed,
	"cradle":    generateCradle,
	"collision": generateCollision,
}

// Names lists the built-in scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate returns the bodies of a built-in scene. The same seed always
// yields the same bodies.
func Generate(kind string, count int, seed int64) ([]BodyDef, error) {
	gen, ok := generators[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScene, "%q", kind)
	}
	if count < 0 {
		count = 0
	}
	return gen(rand.New(rand.NewSource(seed)), count), nil
}

// Builtin wraps a generated scene in a File with default config.
func Builtin(kind string, count int, seed int64) (*File, error) {
	if _, ok := generators[kind]; !ok {
		return nil, errors.Wrapf(ErrUnknownScene, "%q", kind)
	}
	return &File{
		Name:       kind,
		Generators: []GeneratorDef{{Kind: kind, Count: count, Seed: seed}},
	}, nil
}

func staticBox(name string, x, y, w, h float64) BodyDef {
	return BodyDef{
		Name:     name,
		Type:     "static",
		Shape:    ShapeDef{Kind: "box", Width: w, Height: h},
		Position: [2]float64{x, y},
		Material: "stone",
		Color:    "gray",
	}
}

func circle(x, y, r float64, material, color string) BodyDef {
	return BodyDef{
		Shape:    ShapeDef{Kind: "circle", Radius: r},
		Position: [2]float64{x, y},
		Material: material,
		Color:    color,
	}
}

func box(x, y, w, h float64, material, color string) BodyDef {
	return BodyDef{
		Shape:    ShapeDef{Kind: "box", Width: w, Height: h},
		Position: [2]float64{x, y},
		Material: material,
		Color:    color,
	}
}

func generateDefault(rng *rand.Rand, count int) []BodyDef {
	defs := []BodyDef{staticBox("ground", 0, -20, 80, 4)}
	for i := 0; i < count; i++ {
		x := (rng.Float64() - 0.5) * 60
		y := rng.Float64()*20 + 5
		if rng.Float64() < 0.6 {
			defs = append(defs, circle(x, y, rng.Float64()*0.8+0.4, "rubber", "orange"))
		} else {
			size := rng.Float64()*1.2 + 0.4
			defs = append(defs, box(x, y, size, size, "plastic", "blue"))
		}
	}
	return defs
}

func generatePyramid(_ *rand.Rand, count int) []BodyDef {
	defs := []BodyDef{staticBox("ground", 0, -2.5, 80, 5)}

	levels := int(math.Sqrt(float64(count))) + 1
	const size = 1.0
	y := size / 2
	for level := levels; level > 0; level-- {
		offset := -float64(level-1) * size / 2
		for i := 0; i < level; i++ {
			defs = append(defs, box(offset+float64(i)*size, y, size*0.95, size*0.95, "stone", "brown"))
		}
		y += size
	}
	return defs
}

func generateRain(rng *rand.Rand, count int) []BodyDef {
	defs := []BodyDef{
		staticBox("ground", 0, -20, 120, 4),
		staticBox("left wall", -60, 0, 4, 40),
		staticBox("right wall", 60, 0, 4, 40),
	}
	for i := 0; i < count; i++ {
		x := (rng.Float64() - 0.5) * 100
		y := rng.Float64()*60 + 10
		if rng.Float64() < 0.7 {
			defs = append(defs, circle(x, y, rng.Float64()*0.8+0.2, "rubber", "skyblue"))
		} else {
			defs = append(defs, box(x, y, rng.Float64()*1.2+0.4, rng.Float64()*1.2+0.4, "plastic", "darkblue"))
		}
	}
	return defs
}

func generateContainer(rng *rand.Rand, count int) []BodyDef {
	const (
		wall   = 2.0
		width  = 40.0
		height = 30.0
	)
	defs := []BodyDef{
		staticBox("floor", 0, -height/2, width, wall),
		staticBox("left wall", -width/2, 0, wall, height),
		staticBox("right wall", width/2, 0, wall, height),
	}
	for i := 0; i < count; i++ {
		x := (rng.Float64() - 0.5) * (width - 8)
		y := rng.Float64()*20 - 5
		if rng.Float64() < 0.6 {
			defs = append(defs, circle(x, y, rng.Float64()*0.6+0.2, "default", "green"))
		} else {
			size := rng.Float64()*0.8 + 0.4
			defs = append(defs, box(x, y, size, size, "default", "lime"))
		}
	}
	return defs
}

func generateMixed(rng *rand.Rand, count int) []BodyDef {
	defs := []BodyDef{
		staticBox("left ledge", -30, -20, 20, 4),
		staticBox("right ledge", 30, -20, 20, 4),
	}
	for i := 0; i < 5; i++ {
		platform := staticBox("platform", (rng.Float64()-0.5)*60, float64(i)*6-8, rng.Float64()*12+8, 1)
		platform.Angle = (rng.Float64() - 0.5) * 0.4
		defs = append(defs, platform)
	}

	materials := []string{"rubber", "plastic", "stone", "metal"}
	for i := 0; i < count; i++ {
		x := (rng.Float64() - 0.5) * 80
		y := rng.Float64()*40 + 20
		material := materials[rng.Intn(len(materials))]
		switch rng.Intn(3) {
		case 0:
			defs = append(defs, circle(x, y, rng.Float64()*0.8+0.2, material, "orange"))
		case 1:
			size := rng.Float64()*1.2 + 0.4
			defs = append(defs, box(x, y, size, size, material, "purple"))
		default:
			body := BodyDef{
				Shape:    ShapeDef{Kind: "regular", Sides: 3 + rng.Intn(5), Radius: rng.Float64()*0.8 + 0.3},
				Position: [2]float64{x, y},
				Angle:    rng.Float64() * 2 * math.Pi,
				Material: material,
				Color:    "gold",
			}
			defs = append(defs, body)
		}
	}
	return defs
}

// generateCradle lines up touching balls on a frictionless floor and
// launches the first one into the row.
func generateCradle(_ *rand.Rand, count int) []BodyDef {
	if count < 2 {
		count = 5
	}
	zero, one := 0.0, 1.0
	floor := staticBox("floor", 0, -0.5, float64(count)*4+20, 1)
	floor.Friction, floor.Restitution = &zero, &one
	defs := []BodyDef{floor}

	const r = 0.5
	for i := 0; i < count; i++ {
		ball := circle(float64(i)*2*r, r, r, "metal", "silver")
		ball.Friction, ball.Restitution = &zero, &one
		if i == 0 {
			ball.Position[0] = -4
			ball.Velocity = [2]float64{4, 0}
			ball.Color = "red"
		}
		defs = append(defs, ball)
	}
	return defs
}

// generateCollision is a single moving ball striking one at rest, with no
// floor.
func generateCollision(_ *rand.Rand, _ int) []BodyDef {
	moving := circle(-3, 0, 0.5, "default", "red")
	moving.Velocity = [2]float64{2, 0}
	moving.IgnoreGravity = true
	resting := circle(0, 0, 0.5, "default", "blue")
	resting.IgnoreGravity = true
	return []BodyDef{moving, resting}
}
