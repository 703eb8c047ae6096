package tetradae

import (
	"github.com/chewxy/math32"
)

// A Color represents a color, containing R, G, B, and A components, each expected to range from 0 to 1.
type Color struct {
	R, G, B, A float32
}

// NewColor returns a new Color, with the provided R, G, B, and A components expected to range from 0 to 1.
func NewColor(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// NewColorFromArray returns a Color out of an RGBA array, as stored by the COLLADA document model.
func NewColorFromArray(rgba [4]float32) Color {
	return Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
}

// Mult returns the Color multiplied component-wise by the other Color.
func (color Color) Mult(other Color) Color {
	return Color{R: color.R * other.R, G: color.G * other.G, B: color.B * other.B, A: color.A * other.A}
}

// Scaled returns the Color with its R, G, and B components multiplied by the value; alpha is unchanged.
func (color Color) Scaled(value float32) Color {
	color.R *= value
	color.G *= value
	color.B *= value
	return color
}

// RGBA implements image/color.Color, clamping each component to the 0-1 range.
func (color Color) RGBA() (r, g, b, a uint32) {
	clamp := func(v float32) uint32 {
		return uint32(Clamp(v, 0, 1) * 0xffff)
	}
	a = clamp(color.A)
	// image/color expects alpha-premultiplied values.
	r = clamp(color.R) * a / 0xffff
	g = clamp(color.G) * a / 0xffff
	b = clamp(color.B) * a / 0xffff
	return
}

// Float64s returns the components as float64s, the way glTF stores colors.
func (color Color) Float64s() [4]float64 {
	return [4]float64{float64(color.R), float64(color.G), float64(color.B), float64(color.A)}
}

// ToSRGB returns the linear Color converted to the sRGB color space.
func (color Color) ToSRGB() Color {
	convert := func(v float32) float32 {
		if v <= 0.0031308 {
			return v * 12.92
		}
		return 1.055*math32.Pow(v, 1/2.4) - 0.055
	}
	return Color{R: convert(color.R), G: convert(color.G), B: convert(color.B), A: color.A}
}
