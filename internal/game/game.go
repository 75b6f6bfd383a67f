// Package game is the interactive raylib sandbox around a physics world.
package game

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"physics2d/internal/audio"
	"physics2d/internal/camera"
	"physics2d/internal/geom"
	"physics2d/internal/physics"
	"physics2d/internal/render"
	"physics2d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	timestep       = 1.0 / 60
	explodeRadius  = 4.0
	explodeSpeed   = 12.0
	snapshotFile   = "sandbox_snapshot.yaml"
	zoomPerNotch   = 1.1
	panelWidth     = 230
	statusDuration = 3 * time.Second
)

// Options choose what the sandbox starts with.
type Options struct {
	Scene  string // built-in scene name, ignored when File is set
	File   string // scene file to load
	Count  int
	Seed   int64
	Width  int
	Height int
	Mute   bool
	Logger *log.Logger
}

type Game struct {
	opts     Options
	World    *physics.World
	Camera   *camera.Camera
	Renderer *render.Renderer
	Audio    *audio.Manager
	stepper  *Stepper
	undo     UndoStack
	rng      *rand.Rand

	Tool     Tool
	Material string
	Paused   bool

	status     string
	statusTime time.Time

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

func New(opts Options) *Game {
	if opts.Width == 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cam := camera.New(float64(opts.Width), float64(opts.Height), 20)
	return &Game{
		opts:     opts,
		Camera:   cam,
		Renderer: render.NewRenderer(cam),
		Audio:    audio.NewManager(),
		stepper:  NewStepper(timestep),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		Material: "default",
	}
}

// Load replaces the world with the configured scene.
func (g *Game) Load() error {
	var (
		f   *scene.File
		err error
	)
	if g.opts.File != "" {
		f, err = scene.Load(g.opts.File)
	} else {
		f, err = scene.Builtin(g.opts.Scene, g.opts.Count, g.opts.Seed)
	}
	if err != nil {
		return err
	}
	w, err := f.Build(g.opts.Logger)
	if err != nil {
		return err
	}

	g.World = w
	g.World.ContactBegan.AddListener(g.onContactBegan)
	g.undo.Clear()
	g.stepper.Reset()
	g.fitCamera()
	return nil
}

func (g *Game) fitCamera() {
	var box geom.AABB
	first := true
	g.World.Each(func(b *physics.Body) {
		if first {
			box, first = b.AABB(), false
			return
		}
		box = box.Union(b.AABB())
	})
	if !first {
		g.Camera.Fit(box.Expand(2), 40)
	}
}

func (g *Game) onContactBegan(e physics.ContactEvent) {
	pan := g.Camera.WorldToScreen(e.Point).X()/g.Camera.Width*2 - 1
	g.Audio.PlayImpact(e.Speed, pan)
}

func (g *Game) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.statusTime = time.Now()
	g.opts.Logger.Printf("Sandbox: %s", g.status)
}

func (g *Game) Run() error {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable)
	rl.InitWindow(int32(g.opts.Width), int32(g.opts.Height), "Physics Sandbox")
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)

	initRayguiStyle()

	if !g.opts.Mute {
		if err := g.Audio.Initialize(); err != nil {
			g.opts.Logger.Printf("Sandbox: audio disabled: %v", err)
		}
		defer g.Audio.Close()
	}

	if err := g.Load(); err != nil {
		return err
	}

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			return err
		}
		g.Draw()
	}
	return nil
}

func (g *Game) mouseWorld() mgl64.Vec2 {
	m := rl.GetMousePosition()
	return g.Camera.ScreenToWorld(mgl64.Vec2{float64(m.X), float64(m.Y)})
}

func (g *Game) Update() error {
	updateStart := time.Now()
	g.Camera.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))

	g.handleKeys()
	g.handleMouse()

	if !g.Paused {
		if _, err := g.stepper.Advance(g.World, float64(rl.GetFrameTime())); err != nil {
			return err
		}
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
	return nil
}

func (g *Game) handleKeys() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.Paused = !g.Paused
	}
	if rl.IsKeyPressed(rl.KeyN) && g.Paused {
		if err := g.stepper.StepOnce(g.World); err != nil {
			g.setStatus("step: %v", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reload()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.Tool = g.Tool.Next()
	}
	if rl.IsKeyPressed(rl.KeyZ) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyLeftSuper)) {
		if err := g.undo.Undo(g.World); err != nil {
			g.setStatus("undo: %v", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.saveSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.Renderer.Options.Contacts = !g.Renderer.Options.Contacts
	}
	if rl.IsKeyPressed(rl.KeyV) {
		g.Renderer.Options.Normals = !g.Renderer.Options.Normals
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.Renderer.Options.AABBs = !g.Renderer.Options.AABBs
	}

	names := scene.Names()
	for i := 0; i < len(names) && i < 9; i++ {
		if rl.IsKeyPressed(rl.KeyOne + int32(i)) {
			g.opts.Scene, g.opts.File = names[i], ""
			g.reload()
		}
	}
}

func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	if float64(mouse.X) > g.Camera.Width-panelWidth {
		return
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		factor := zoomPerNotch
		if wheel < 0 {
			factor = 1 / zoomPerNotch
		}
		g.Camera.ZoomAt(mgl64.Vec2{float64(mouse.X), float64(mouse.Y)}, factor)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		g.Camera.Pan(float64(d.X), float64(d.Y))
	}
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}

	p := g.mouseWorld()
	switch g.Tool {
	case ToolAttractor:
		if _, err := g.World.AddAttractor(physics.NewAttractor(p)); err != nil {
			g.setStatus("attractor: %v", err)
		}
	case ToolExplode:
		n := Explode(g.World, p, explodeRadius, explodeSpeed)
		g.setStatus("pushed %d bodies", n)
	case ToolRemove:
		RemoveAt(g.World, p, &g.undo)
	default:
		def, ok := SpawnDef(g.Tool, p, g.Material, g.rng)
		if !ok {
			return
		}
		h, err := scene.AddBody(g.World, def)
		if err != nil {
			g.setStatus("spawn: %v", err)
			return
		}
		g.undo.PushSpawn(h)
	}
}

func (g *Game) reload() {
	if err := g.Load(); err != nil {
		g.setStatus("load: %v", err)
		return
	}
	g.setStatus("loaded %s", g.sceneName())
}

func (g *Game) sceneName() string {
	if g.opts.File != "" {
		return g.opts.File
	}
	return g.opts.Scene
}

func (g *Game) saveSnapshot() {
	f := scene.Snapshot(g.World)
	f.Name = g.sceneName()
	if err := scene.Save(snapshotFile, f); err != nil {
		g.setStatus("save: %v", err)
		return
	}
	g.setStatus("saved %s", snapshotFile)
}

func (g *Game) Draw() {
	rl.BeginDrawing()

	drawStart := time.Now()
	g.Renderer.Draw(g.World)
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) DrawUI() {
	h := int32(rl.GetScreenHeight())
	rl.DrawText(fmt.Sprintf("Tool: %s (Tab)  Space pause  N step  R reset  1-9 scenes  F5 save", g.Tool), 10, h-50, 16, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Update %.2f ms  Draw %.2f ms", g.updateMs, g.drawMs), 10, h-28, 16, rl.Green)
	if g.Paused {
		rl.DrawText("PAUSED", 10, 100, 20, rl.Yellow)
	}
	if g.status != "" && time.Since(g.statusTime) < statusDuration {
		rl.DrawText(g.status, 10, 125, 16, rl.Orange)
	}
	g.drawPanel()
}
