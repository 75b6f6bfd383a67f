package game

import (
	"fmt"
	"math"

	"physics2d/internal/physics"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	colorBgDark        = rl.NewColor(10, 10, 15, 255)
	colorBgPanel       = rl.NewColor(18, 18, 24, 235)
	colorBgElement     = rl.NewColor(28, 28, 38, 255)
	colorBgHover       = rl.NewColor(38, 38, 52, 255)
	colorAccent        = rl.NewColor(108, 99, 255, 255)
	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
)

var materialNames = []string{"default", "rubber", "plastic", "stone", "metal"}

var combineRules = []physics.CombineRule{
	physics.CombineMin,
	physics.CombineMax,
	physics.CombineAverage,
	physics.CombineMultiply,
	physics.CombineGeometric,
}

func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

// nextRule returns the rule after r in combineRules.
func nextRule(r physics.CombineRule) physics.CombineRule {
	for i, rule := range combineRules {
		if rule == r {
			return combineRules[(i+1)%len(combineRules)]
		}
	}
	return combineRules[0]
}

func nextMaterial(name string) string {
	for i, m := range materialNames {
		if m == name {
			return materialNames[(i+1)%len(materialNames)]
		}
	}
	return materialNames[0]
}

// panelLayout stacks controls top to bottom.
type panelLayout struct {
	x, y, width float32
}

func (l *panelLayout) next(height float32) rl.Rectangle {
	r := rl.Rectangle{X: l.x, Y: l.y, Width: l.width, Height: height}
	l.y += height + 6
	return r
}

// drawPanel draws the settings panel and applies any edits to the world.
func (g *Game) drawPanel() {
	sw := float32(rl.GetScreenWidth())
	sh := float32(rl.GetScreenHeight())
	rl.DrawRectangleRec(rl.Rectangle{X: sw - panelWidth, Y: 0, Width: panelWidth, Height: sh}, colorBgPanel)

	l := &panelLayout{x: sw - panelWidth + 12, y: 12, width: panelWidth - 24}
	cfg := g.World.Config()
	changed := false

	gui.Label(l.next(18), "World")
	gy := gui.Slider(l.next(18), "", fmt.Sprintf("g %.1f", cfg.Gravity.Y()), float32(cfg.Gravity.Y()), -30, 0)
	if float64(gy) != cfg.Gravity.Y() {
		cfg.Gravity = mgl64.Vec2{cfg.Gravity.X(), float64(gy)}
		changed = true
	}
	iter := gui.Slider(l.next(18), "", fmt.Sprintf("iter %d", cfg.Iterations), float32(cfg.Iterations), 1, 50)
	if n := int(math.Round(float64(iter))); n != cfg.Iterations {
		cfg.Iterations = n
		changed = true
	}
	factor := gui.Slider(l.next(18), "", fmt.Sprintf("corr %.2f", cfg.CorrectionFactor), float32(cfg.CorrectionFactor), 0, 1)
	if float64(factor) != cfg.CorrectionFactor {
		cfg.CorrectionFactor = float64(factor)
		changed = true
	}
	if gui.Button(l.next(24), "Restitution: "+cfg.RestitutionRule.String()) {
		cfg.RestitutionRule = nextRule(cfg.RestitutionRule)
		changed = true
	}
	if gui.Button(l.next(24), "Friction: "+cfg.FrictionRule.String()) {
		cfg.FrictionRule = nextRule(cfg.FrictionRule)
		changed = true
	}
	if sleep := gui.CheckBox(l.next(18), "Sleeping", cfg.Sleep.Enabled); sleep != cfg.Sleep.Enabled {
		cfg.Sleep.Enabled = sleep
		changed = true
	}
	if changed {
		if err := g.World.SetConfig(cfg); err != nil {
			g.setStatus("config: %v", err)
		}
	}

	l.y += 8
	gui.Label(l.next(18), "Tools")
	if gui.Button(l.next(24), "Tool: "+g.Tool.String()) {
		g.Tool = g.Tool.Next()
	}
	if gui.Button(l.next(24), "Material: "+g.Material) {
		g.Material = nextMaterial(g.Material)
	}
	if gui.Button(l.next(24), fmt.Sprintf("Undo (%d)", g.undo.Len())) {
		if err := g.undo.Undo(g.World); err != nil {
			g.setStatus("undo: %v", err)
		}
	}
	if gui.Button(l.next(24), "Clear attractors") {
		g.World.ClearAttractors()
	}

	l.y += 8
	gui.Label(l.next(18), "View")
	opts := &g.Renderer.Options
	opts.Contacts = gui.CheckBox(l.next(18), "Contacts", opts.Contacts)
	opts.Normals = gui.CheckBox(l.next(18), "Normals", opts.Normals)
	opts.AABBs = gui.CheckBox(l.next(18), "Bounds", opts.AABBs)
	opts.Grid = gui.CheckBox(l.next(18), "Grid", opts.Grid)
	g.Audio.SetEnabled(gui.CheckBox(l.next(18), "Sound", g.Audio.Enabled()))

	l.y += 8
	label := "Pause"
	if g.Paused {
		label = "Resume"
	}
	if gui.Button(l.next(24), label) {
		g.Paused = !g.Paused
	}
	if gui.Button(l.next(24), "Reset") {
		g.reload()
	}
	if gui.Button(l.next(24), "Save snapshot") {
		g.saveSnapshot()
	}
}
