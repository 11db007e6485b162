package scene

import (
	"fmt"

	"rigidbox/internal/collider"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Pink":      rl.Pink,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"Magenta":   rl.Magenta,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

var nameByColor map[rl.Color]string

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

// ColorNames lists the accepted color names.
func ColorNames() []string {
	names := make([]string, 0, len(colorByName))
	for name := range colorByName {
		names = append(names, name)
	}
	return names
}

// DefaultColor is the color of an object that does not name one.
func DefaultColor(state collider.State) rl.Color {
	switch state {
	case collider.Static:
		return rl.Gray
	case collider.Trigger:
		return rl.Lime
	}
	return rl.Orange
}

func lookupColor(name string, state collider.State) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	return DefaultColor(state)
}

func lookupColorName(c rl.Color) (string, bool) {
	name, ok := nameByColor[c]
	return name, ok
}

// ColorString names c, or formats it as #rrggbbaa when it has no name.
func ColorString(c rl.Color) string {
	if name, ok := lookupColorName(c); ok {
		return name
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
