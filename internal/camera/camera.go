// Package camera maps world meters (y up) to screen pixels (y down).
package camera

import (
	"math"

	"physics2d/internal/geom"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinScale = 2.0   // pixels per meter
	MaxScale = 400.0 // pixels per meter
)

type Camera struct {
	Center mgl64.Vec2 // world point at the middle of the screen
	Scale  float64    // pixels per meter
	Width  float64    // screen size in pixels
	Height float64
}

func New(width, height, scale float64) *Camera {
	return &Camera{
		Scale:  mgl64.Clamp(scale, MinScale, MaxScale),
		Width:  width,
		Height: height,
	}
}

// Resize keeps the center fixed while the window changes size.
func (c *Camera) Resize(width, height float64) {
	c.Width, c.Height = width, height
}

func (c *Camera) WorldToScreen(p mgl64.Vec2) mgl64.Vec2 {
	d := p.Sub(c.Center).Mul(c.Scale)
	return mgl64.Vec2{c.Width/2 + d.X(), c.Height/2 - d.Y()}
}

func (c *Camera) ScreenToWorld(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		c.Center.X() + (p.X()-c.Width/2)/c.Scale,
		c.Center.Y() - (p.Y()-c.Height/2)/c.Scale,
	}
}

// Pan moves the view by a screen-space drag.
func (c *Camera) Pan(dx, dy float64) {
	c.Center = c.Center.Add(mgl64.Vec2{-dx / c.Scale, dy / c.Scale})
}

// ZoomAt scales the view by factor, keeping the world point under the
// screen point fixed.
func (c *Camera) ZoomAt(screen mgl64.Vec2, factor float64) {
	anchor := c.ScreenToWorld(screen)
	c.Scale = mgl64.Clamp(c.Scale*factor, MinScale, MaxScale)
	drift := c.ScreenToWorld(screen).Sub(anchor)
	c.Center = c.Center.Sub(drift)
}

// Fit centers box on screen with margin pixels of padding on each side.
func (c *Camera) Fit(box geom.AABB, margin float64) {
	c.Center = box.Center()
	size := box.Size()
	w, h := c.Width-2*margin, c.Height-2*margin
	if w <= 0 || h <= 0 || size.X() <= 0 || size.Y() <= 0 {
		return
	}
	c.Scale = mgl64.Clamp(math.Min(w/size.X(), h/size.Y()), MinScale, MaxScale)
}

// Visible is the world rectangle on screen.
func (c *Camera) Visible() geom.AABB {
	a := c.ScreenToWorld(mgl64.Vec2{0, c.Height})
	b := c.ScreenToWorld(mgl64.Vec2{c.Width, 0})
	return geom.AABB{Min: a, Max: b}
}
