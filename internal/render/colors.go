package render

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var colorByName = map[string]rl.Color{
	"red":       rl.Red,
	"blue":      rl.Blue,
	"darkblue":  rl.DarkBlue,
	"green":     rl.Green,
	"purple":    rl.Purple,
	"orange":    rl.Orange,
	"yellow":    rl.Yellow,
	"pink":      rl.Pink,
	"skyblue":   rl.SkyBlue,
	"lime":      rl.Lime,
	"magenta":   rl.Magenta,
	"white":     rl.White,
	"lightgray": rl.LightGray,
	"silver":    rl.LightGray,
	"gray":      rl.Gray,
	"darkgray":  rl.DarkGray,
	"black":     rl.Black,
	"brown":     rl.Brown,
	"beige":     rl.Beige,
	"maroon":    rl.Maroon,
	"gold":      rl.Gold,
}

// palette colours bodies that carry no colour of their own.
var palette = []rl.Color{
	rl.Red, rl.Blue, rl.Green, rl.Purple, rl.Orange,
	rl.Yellow, rl.Pink, rl.SkyBlue, rl.Lime, rl.Magenta,
}

// LookupColor resolves a colour name or a #rrggbb / #rrggbbaa string.
func LookupColor(name string) (rl.Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := colorByName[name]; ok {
		return c, true
	}
	if strings.HasPrefix(name, "#") {
		var r, g, b uint8
		a := uint8(255)
		switch len(name) {
		case 7:
			if _, err := fmt.Sscanf(name, "#%02x%02x%02x", &r, &g, &b); err == nil {
				return rl.NewColor(r, g, b, a), true
			}
		case 9:
			if _, err := fmt.Sscanf(name, "#%02x%02x%02x%02x", &r, &g, &b, &a); err == nil {
				return rl.NewColor(r, g, b, a), true
			}
		}
	}
	return rl.White, false
}

// colorFor picks the body's named colour, falling back to the palette by
// index so unnamed bodies stay distinguishable.
func colorFor(name string, index int) rl.Color {
	if c, ok := LookupColor(name); ok {
		return c
	}
	return palette[index%len(palette)]
}
