// Package colorutil provides overlay colors and mask-overlay rendering.
package colorutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"strings"
)

// Common overlay colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

var named = map[string]color.RGBA{
	"black":   Black,
	"white":   White,
	"cyan":    Cyan,
	"magenta": Magenta,
	"blue":    Blue,
	"green":   Green,
	"yellow":  Yellow,
}

// Names returns the recognised color names, sorted.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Parse looks up a color by name.
func Parse(name string) (color.RGBA, error) {
	c, ok := named[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Blend mixes over into base. alpha is clamped to [0, 1]; 1 gives over.
func Blend(base, over color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-alpha) + float64(b)*alpha))
	}
	return color.RGBA{
		R: mix(base.R, over.R),
		G: mix(base.G, over.G),
		B: mix(base.B, over.B),
		A: 255,
	}
}

// Overlay returns an RGBA copy of img with every pixel where inside(x, y) is
// true tinted toward c. Coordinates passed to inside are relative to the
// image's top-left corner.
func Overlay(img image.Image, inside func(x, y int) bool, c color.RGBA, alpha float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if inside(x, y) {
				out.SetRGBA(x, y, Blend(out.RGBAAt(x, y), c, alpha))
			}
		}
	}
	return out
}
