package export

import (
	"fmt"
	"image/color"
)

// Palette maps a normalised height in [0, 1] to a colour.
type Palette func(v float64) color.RGBA

// ParsePalette returns the palette with the given config name.
func ParsePalette(name string) (Palette, error) {
	switch name {
	case "", "gray":
		return Gray, nil
	case "terrain":
		return Terrain, nil
	default:
		return nil, fmt.Errorf("unknown palette %q", name)
	}
}

// Gray maps heights to a linear grey ramp.
func Gray(v float64) color.RGBA {
	g := uint8(clamp01(v)*255 + 0.5)
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

// Terrain maps heights through deep water, shallows, lowland and snow.
func Terrain(v float64) color.RGBA {
	v = clamp01(v)

	var r, g, b float64
	switch {
	case v < 0.25:
		// Deep to mid water
		t := v / 0.25
		r = 10 + t*30
		g = 20 + t*60
		b = 60 + t*100
	case v < 0.5:
		// Shallows
		t := (v - 0.25) / 0.25
		r = 40 + t*20
		g = 80 + t*120
		b = 160 + t*40
	case v < 0.75:
		// Lowland to highland
		t := (v - 0.5) / 0.25
		r = 60 + t*140
		g = 200 - t*40
		b = 200 - t*150
	default:
		// Highland to snow
		t := (v - 0.75) / 0.25
		r = 200 + t*55
		g = 160 + t*95
		b = 50 + t*205
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
