package value

import "fmt"

// Color is an RGBA color (spec 3). OriginalFormat records how the color
// was written (named, hex, rgb(), hsl()); CSSText does not consult it:
// every opaque color prints as hex and every other color as rgba(). HSL
// is cached lazily since most colors are never queried by
// hue/saturation/lightness.
type Color struct {
	R, G, B      int // 0-255
	A            float64
	OriginalFormat string // "", "named", "hex", "rgb", "hsl"
	hsl          *hslCache
}

type hslCache struct{ H, S, L float64 }

func RGBA(r, g, b int, a float64) Color {
	return Color{R: clamp255(r), G: clamp255(g), B: clamp255(b), A: clampAlpha(a)}
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clampAlpha(a float64) float64 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

func (c Color) CSSText() string {
	switch {
	case c.OriginalFormat == "hex" && c.A == 1:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	case c.A == 1:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, formatNumber(c.A))
	}
}

func (c Color) Inspect() string { return c.CSSText() }

func (c Color) Truthy() bool { return true }

func (c Color) Equal(o Value) bool {
	oc, ok := o.(Color)
	return ok && oc.R == c.R && oc.G == c.G && oc.B == c.B && oc.A == c.A
}

// HSL lazily computes and caches the HSL representation. Pointer receiver:
// the cache write must land on the caller's Color, not a copy.
func (c *Color) HSL() (h, s, l float64) {
	if c.hsl != nil {
		return c.hsl.H, c.hsl.S, c.hsl.L
	}
	h, s, l = rgbToHSL(c.R, c.G, c.B)
	c.hsl = &hslCache{h, s, l}
	return
}

func rgbToHSL(r, g, b int) (h, s, l float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := maxf(rf, gf, bf)
	min := minf(rf, gf, bf)
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	case bf:
		h = (rf-gf)/d + 4
	}
	h *= 60
	return
}

func maxf(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minf(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

var namedColors = map[string]Color{
	"red":   {R: 255, G: 0, B: 0, A: 1, OriginalFormat: "named"},
	"black": {R: 0, G: 0, B: 0, A: 1, OriginalFormat: "named"},
	"white": {R: 255, G: 255, B: 255, A: 1, OriginalFormat: "named"},
	"transparent": {R: 0, G: 0, B: 0, A: 0, OriginalFormat: "named"},
}

// NamedColor looks up a CSS named color (e.g. `red`); the evaluator uses
// this to recognize bare identifiers that double as colors inside
// interpolation (spec 4.5: emits a deprecation warning recommending the
// value be quoted).
func NamedColor(name string) (Color, bool) {
	c, ok := namedColors[name]
	return c, ok
}
