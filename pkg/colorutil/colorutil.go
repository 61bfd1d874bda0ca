// Package colorutil provides shared color utilities for the annotator:
// class palettes, colormaps for scalar data, and RGBA helpers.
package colorutil

import (
	"image/color"
	"math"
	"sort"

	"golang.org/x/image/colornames"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
)

// basePalette is the first tier of class colors: ten well-separated hues
// in a fixed, recognizable order.
var basePalette = []color.NRGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, // blue
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255}, // orange
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}, // green
	{R: 0xd6, G: 0x27, B: 0x28, A: 255}, // red
	{R: 0x94, G: 0x67, B: 0xbd, A: 255}, // purple
	{R: 0x8c, G: 0x56, B: 0x4b, A: 255}, // brown
	{R: 0xe3, G: 0x77, B: 0xc2, A: 255}, // pink
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 255}, // gray
	{R: 0xbc, G: 0xbd, B: 0x22, A: 255}, // olive
	{R: 0x17, G: 0xbe, B: 0xcf, A: 255}, // cyan
}

// namedColorOrder lists the SVG color names in alphabetical order. It is
// computed once and backs the palette tier beyond the base ten classes.
var namedColorOrder = func() []string {
	names := make([]string, 0, len(colornames.Map))
	for name := range colornames.Map {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// ClassColors returns n distinct class colors. The first ten come from the
// base palette; further classes draw from the SVG named-color table in
// alphabetical order, cycling if n exceeds both tables combined.
func ClassColors(n int) []color.NRGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.NRGBA, 0, n)
	if n <= len(basePalette) {
		return append(out, basePalette[:n]...)
	}
	for i := 0; i < n; i++ {
		name := namedColorOrder[i%len(namedColorOrder)]
		c := colornames.Map[name]
		out = append(out, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	return out
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// AlphaByte converts an opacity in [0, 1] to an 8-bit alpha value.
func AlphaByte(opacity float64) uint8 {
	if opacity <= 0 {
		return 0
	}
	if opacity >= 1 {
		return 255
	}
	return uint8(math.Round(opacity * 255))
}

// Stop is one anchor of a colormap gradient.
type Stop struct {
	T float64
	C color.NRGBA
}

// Colormap maps a scalar in [0, 1] to a color by linear interpolation
// between anchor stops.
type Colormap struct {
	Name  string
	Stops []Stop
}

// At returns the colormap color for t, clamped to [0, 1].
func (m Colormap) At(t float64) color.NRGBA {
	stops := m.Stops
	if len(stops) == 0 {
		return Black
	}
	if t <= stops[0].T {
		return stops[0].C
	}
	last := stops[len(stops)-1]
	if t >= last.T {
		return last.C
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].T {
			lo, hi := stops[i-1], stops[i]
			f := (t - lo.T) / (hi.T - lo.T)
			return lerp(lo.C, hi.C, f)
		}
	}
	return last.C
}

func lerp(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.NRGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}

// Viridis approximates the perceptually-uniform viridis colormap with
// anchor stops at eighths.
var Viridis = Colormap{Name: "viridis", Stops: []Stop{
	{0.000, color.NRGBA{68, 1, 84, 255}},
	{0.125, color.NRGBA{72, 40, 120, 255}},
	{0.250, color.NRGBA{62, 74, 137, 255}},
	{0.375, color.NRGBA{49, 104, 142, 255}},
	{0.500, color.NRGBA{38, 130, 142, 255}},
	{0.625, color.NRGBA{31, 158, 137, 255}},
	{0.750, color.NRGBA{53, 183, 121, 255}},
	{0.875, color.NRGBA{109, 205, 89, 255}},
	{1.000, color.NRGBA{253, 231, 37, 255}},
}}

// Magma approximates the magma colormap.
var Magma = Colormap{Name: "magma", Stops: []Stop{
	{0.00, color.NRGBA{0, 0, 4, 255}},
	{0.25, color.NRGBA{81, 18, 124, 255}},
	{0.50, color.NRGBA{183, 55, 121, 255}},
	{0.75, color.NRGBA{252, 137, 97, 255}},
	{1.00, color.NRGBA{252, 253, 191, 255}},
}}

// Gray is a linear black-to-white colormap.
var Gray = Colormap{Name: "gray", Stops: []Stop{
	{0, Black},
	{1, White},
}}

var colormaps = map[string]Colormap{
	"viridis": Viridis,
	"magma":   Magma,
	"gray":    Gray,
}

// ColormapByName looks up a colormap by name.
func ColormapByName(name string) (Colormap, bool) {
	m, ok := colormaps[name]
	return m, ok
}
