// Package palette implements the color model used by logo rendering:
// HSL to RGB conversion, linear interpolation, alpha blending and the
// stream-driven choice of the two base hues.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tokenlogo/pkg/core/prng"
)

// Saturation and lightness of the three palette entries.
const (
	primarySaturation   = 0.65
	primaryLightness    = 0.5
	secondarySaturation = 0.55
	secondaryLightness  = 0.35
	tintSaturation      = 0.4
	tintLightness       = 0.9
)

// RGB is an opaque 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.Color().Hex()
}

// Color converts c to a go-colorful color for display and analysis.
func (c RGB) Color() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Palette holds the colors of a single logo.
type Palette struct {
	Hue1      int // hue of Primary and Tint, in degrees
	Hue2      int // hue of Secondary, 90-179 degrees away from Hue1
	Primary   RGB // vivid gradient start
	Secondary RGB // dark gradient end
	Tint      RGB // pale overlay for pattern cells
}

// Pick draws two values from s and derives a palette from them.
// Exactly two values are consumed: the first hue, then the hue offset.
func Pick(s *prng.Stream) Palette {
	hue1 := s.Intn(360)
	hue2 := (hue1 + 90 + s.Intn(90)) % 360
	return FromHues(hue1, hue2)
}

// FromHues builds a palette from two hues in degrees.
func FromHues(hue1, hue2 int) Palette {
	h1, h2 := float64(hue1), float64(hue2)
	return Palette{
		Hue1:      hue1,
		Hue2:      hue2,
		Primary:   HSLToRGB(h1, primarySaturation, primaryLightness),
		Secondary: HSLToRGB(h2, secondarySaturation, secondaryLightness),
		Tint:      HSLToRGB(h1, tintSaturation, tintLightness),
	}
}

// HSLToRGB converts hue h in [0, 360), saturation s and lightness l in [0, 1].
func HSLToRGB(h, s, l float64) RGB {
	a := s * min(l, 1-l)
	f := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		return channel(l - a*max(min(k-3, 9-k, 1), -1))
	}
	return RGB{R: f(0), G: f(8), B: f(4)}
}

// Lerp interpolates each channel from c1 (t=0) to c2 (t=1).
func Lerp(c1, c2 RGB, t float64) RGB {
	mix := func(a, b uint8) uint8 {
		fa := float64(a)
		return round(fa + (float64(b)-fa)*t)
	}
	return RGB{R: mix(c1.R, c2.R), G: mix(c1.G, c2.G), B: mix(c1.B, c2.B)}
}

// Blend composites overlay over base with the given opacity.
func Blend(base, overlay RGB, alpha float64) RGB {
	mix := func(b, o uint8) uint8 {
		return round(float64(b)*(1-alpha) + float64(o)*alpha)
	}
	return RGB{R: mix(base.R, overlay.R), G: mix(base.G, overlay.G), B: mix(base.B, overlay.B)}
}

func channel(v float64) uint8 {
	return round(255 * v)
}

// round rounds half up and clamps to the 8-bit range.
func round(v float64) uint8 {
	return uint8(max(0, min(255, math.Floor(v+0.5))))
}
