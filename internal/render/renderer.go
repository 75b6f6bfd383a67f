// Package render draws a physics world with raylib.
package render

import (
	"fmt"

	"physics2d/internal/camera"
	"physics2d/internal/geom"
	"physics2d/internal/physics"
	"physics2d/internal/scene"
	"physics2d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	colorBackground = rl.NewColor(24, 26, 33, 255)
	colorGrid       = rl.NewColor(40, 43, 54, 255)
	colorAxis       = rl.NewColor(70, 74, 92, 255)
	colorContact    = rl.NewColor(255, 80, 80, 255)
	colorNormal     = rl.NewColor(255, 220, 90, 255)
	colorAABB       = rl.NewColor(90, 200, 120, 120)
	colorAttractor  = rl.NewColor(180, 120, 255, 255)
	colorText       = rl.NewColor(220, 220, 230, 255)
)

// Options toggle the debug overlays.
type Options struct {
	Contacts bool
	Normals  bool
	AABBs    bool
	Grid     bool
	Stats    bool
}

type Renderer struct {
	Camera  *camera.Camera
	Options Options
}

func NewRenderer(cam *camera.Camera) *Renderer {
	return &Renderer{
		Camera:  cam,
		Options: Options{Contacts: true, Grid: true, Stats: true},
	}
}

func (r *Renderer) toScreen(p mgl64.Vec2) rl.Vector2 {
	s := r.Camera.WorldToScreen(p)
	return rl.Vector2{X: float32(s.X()), Y: float32(s.Y())}
}

// Draw renders w. The caller owns BeginDrawing/EndDrawing.
func (r *Renderer) Draw(w *physics.World) {
	rl.ClearBackground(colorBackground)
	if r.Options.Grid {
		r.drawGrid()
	}

	i := 0
	w.Each(func(b *physics.Body) {
		r.drawBody(b, i)
		i++
	})

	for _, a := range w.Attractors() {
		c := r.toScreen(a.Position)
		rl.DrawCircleV(c, 6, colorAttractor)
		if a.Mode == physics.AttractLocal {
			rl.DrawCircleLines(int32(c.X), int32(c.Y), float32(a.Radius*r.Camera.Scale), rl.Fade(colorAttractor, 0.4))
		}
	}

	if r.Options.Contacts || r.Options.Normals {
		for _, cp := range w.Contacts() {
			p := r.toScreen(cp.Point)
			if r.Options.Contacts {
				rl.DrawCircleV(p, 3, colorContact)
			}
			if r.Options.Normals {
				rl.DrawLineV(p, r.toScreen(cp.Point.Add(cp.Normal.Mul(0.5))), colorNormal)
			}
		}
	}

	if r.Options.Stats {
		r.drawStats(w.Stats())
	}
}

func (r *Renderer) drawBody(b *physics.Body, index int) {
	var name string
	if info, ok := b.UserData().(scene.BodyInfo); ok {
		name = info.Color
	}
	fill := colorFor(name, index)
	if b.IsStatic() {
		fill = rl.Gray
		if c, ok := LookupColor(name); ok {
			fill = c
		}
	} else if !b.IsAwake() {
		fill = rl.Fade(fill, 0.4)
	}
	outline := rl.Fade(rl.White, 0.6)

	s := b.Shape()
	xf := b.Transform()
	switch s.Kind() {
	case shape.KindCircle:
		c := r.toScreen(xf.Position)
		radius := float32(s.Radius() * r.Camera.Scale)
		rl.DrawCircleV(c, radius, fill)
		rl.DrawCircleLines(int32(c.X), int32(c.Y), radius, outline)
		// Spoke so rotation is visible.
		rim := xf.Apply(mgl64.Vec2{s.Radius(), 0})
		rl.DrawLineV(c, r.toScreen(rim), outline)
	case shape.KindPolygon:
		verts := s.WorldVertices(xf)
		pts := make([]rl.Vector2, len(verts))
		for i, v := range verts {
			pts[i] = r.toScreen(v)
		}
		// The y flip turns counter-clockwise world winding into clockwise
		// screen winding, so each fan triangle is emitted reversed.
		for i := 1; i+1 < len(pts); i++ {
			rl.DrawTriangle(pts[0], pts[i+1], pts[i], fill)
		}
		for i := range pts {
			rl.DrawLineV(pts[i], pts[(i+1)%len(pts)], outline)
		}
	}

	if r.Options.AABBs {
		r.drawAABB(b.AABB())
	}
}

func (r *Renderer) drawAABB(box geom.AABB) {
	tl := r.toScreen(mgl64.Vec2{box.Min.X(), box.Max.Y()})
	br := r.toScreen(mgl64.Vec2{box.Max.X(), box.Min.Y()})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}, 1, colorAABB)
}

// drawGrid draws a line every meter, thinning out when zoomed far away.
func (r *Renderer) drawGrid() {
	view := r.Camera.Visible()
	step := 1.0
	for step*r.Camera.Scale < 12 {
		step *= 5
	}

	sw, sh := float32(r.Camera.Width), float32(r.Camera.Height)
	for x := float64(int(view.Min.X()/step)) * step; x <= view.Max.X(); x += step {
		sx := r.toScreen(mgl64.Vec2{x, 0}).X
		col := colorGrid
		if x == 0 {
			col = colorAxis
		}
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: sh}, col)
	}
	for y := float64(int(view.Min.Y()/step)) * step; y <= view.Max.Y(); y += step {
		sy := r.toScreen(mgl64.Vec2{0, y}).Y
		col := colorGrid
		if y == 0 {
			col = colorAxis
		}
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: sw, Y: sy}, col)
	}
}

func (r *Renderer) drawStats(st physics.Stats) {
	lines := []string{
		fmt.Sprintf("Bodies: %d (%d awake)", st.Bodies, st.Awake),
		fmt.Sprintf("Pairs: %d  Manifolds: %d  Contacts: %d", st.Pairs, st.Manifolds, st.Contacts),
		fmt.Sprintf("Step: %v  (#%d)", st.LastStep, st.Steps),
	}
	x, y := int32(10), int32(30)
	for _, line := range lines {
		rl.DrawText(line, x, y, 16, colorText)
		y += 20
	}
	rl.DrawFPS(10, 8)
}
