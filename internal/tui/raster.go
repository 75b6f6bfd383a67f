// Package tui rasterizes a physics world into terminal cells.
package tui

import (
	"math"

	"physics2d/internal/camera"
	"physics2d/internal/physics"
	"physics2d/internal/scene"
	"physics2d/internal/shape"

	"github.com/go-gl/mathgl/mgl64"
)

// A terminal cell is about twice as tall as it is wide, so the camera works
// in half-cell pixels: one pixel per column, two per row.
const rowPixels = 2

const (
	RuneCircle  = 'o'
	RunePolygon = '#'
	RuneStatic  = '='
	RuneContact = '*'
)

// Cell is one character of the rendered frame.
type Cell struct {
	Rune   rune
	Color  string // body colour name, empty for none
	Asleep bool
}

// Frame is a grid of cells, indexed [row][col].
type Frame [][]Cell

func NewFrame(cols, rows int) Frame {
	f := make(Frame, rows)
	for r := range f {
		f[r] = make([]Cell, cols)
	}
	return f
}

func (f Frame) Size() (cols, rows int) {
	if len(f) == 0 {
		return 0, 0
	}
	return len(f[0]), len(f)
}

func (f Frame) clear() {
	for r := range f {
		for c := range f[r] {
			f[r][c] = Cell{}
		}
	}
}

// NewCamera returns a camera sized for a cols x rows terminal.
func NewCamera(cols, rows int, cellsPerMeter float64) *camera.Camera {
	return camera.New(float64(cols), float64(rows*rowPixels), cellsPerMeter)
}

func (f Frame) cellAt(cam *camera.Camera, p mgl64.Vec2) (col, row int, ok bool) {
	s := cam.WorldToScreen(p)
	col, row = int(math.Floor(s.X())), int(math.Floor(s.Y()/rowPixels))
	cols, rows := f.Size()
	return col, row, col >= 0 && row >= 0 && col < cols && row < rows
}

// Rasterize draws w into f. Cells whose centre lies inside a body take that
// body's rune; later bodies overwrite earlier ones.
func Rasterize(f Frame, w *physics.World, cam *camera.Camera, showContacts bool) {
	f.clear()
	cols, rows := f.Size()

	w.Each(func(b *physics.Body) {
		s := b.Shape()
		xf := b.Transform()
		box := b.AABB()

		lo := cam.WorldToScreen(mgl64.Vec2{box.Min.X(), box.Max.Y()})
		hi := cam.WorldToScreen(mgl64.Vec2{box.Max.X(), box.Min.Y()})
		c0 := max(0, int(math.Floor(lo.X())))
		c1 := min(cols-1, int(math.Ceil(hi.X())))
		r0 := max(0, int(math.Floor(lo.Y()/rowPixels)))
		r1 := min(rows-1, int(math.Ceil(hi.Y()/rowPixels)))

		cell := Cell{Rune: RunePolygon, Asleep: !b.IsStatic() && !b.IsAwake()}
		switch {
		case b.IsStatic():
			cell.Rune = RuneStatic
		case s.Kind() == shape.KindCircle:
			cell.Rune = RuneCircle
		}
		if info, ok := b.UserData().(scene.BodyInfo); ok {
			cell.Color = info.Color
		}

		filled := false
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				center := cam.ScreenToWorld(mgl64.Vec2{float64(c) + 0.5, float64(r*rowPixels) + rowPixels/2.0})
				if s.Contains(xf, center) {
					f[r][c] = cell
					filled = true
				}
			}
		}
		// Bodies smaller than a cell still show up at their centre.
		if !filled {
			if c, r, ok := f.cellAt(cam, b.Position()); ok {
				f[r][c] = cell
			}
		}
	})

	if showContacts {
		for _, cp := range w.Contacts() {
			if c, r, ok := f.cellAt(cam, cp.Point); ok {
				f[r][c] = Cell{Rune: RuneContact, Color: "red"}
			}
		}
	}
}

// String renders the frame as plain text, one line per row.
func (f Frame) String() string {
	cols, rows := f.Size()
	buf := make([]rune, 0, (cols+1)*rows)
	for _, row := range f {
		for _, cell := range row {
			if cell.Rune == 0 {
				buf = append(buf, ' ')
			} else {
				buf = append(buf, cell.Rune)
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
