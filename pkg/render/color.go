package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

// MultiplyColor scales the RGB channels by intensity.
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}

// Mix blends c over bg with opacity alpha in [0, 1]. The result is opaque.
func Mix(c, bg Color, alpha float64) Color {
	alpha = math.Max(0, math.Min(1, alpha))
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(b) + (float64(a)-float64(b))*alpha))
	}
	return Color{R: lerp(c.R, bg.R), G: lerp(c.G, bg.G), B: lerp(c.B, bg.B), A: 255}
}
