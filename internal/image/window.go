package image

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Window is an immutable square view into a larger image. Sub-images at other
// sizes are requested explicitly with AtSize, so a window can be shared by
// concurrent readers.
type Window struct {
	src    image.Image
	center image.Point
	size   int
}

// NewWindow creates a view of src centered on center.
func NewWindow(src image.Image, center image.Point, size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{src: src, center: center, size: size}
}

// Size returns the window's extraction size in pixels.
func (w *Window) Size() int {
	return w.size
}

// Center returns the window center in source pixel coordinates.
func (w *Window) Center() image.Point {
	return w.center
}

// Resized returns a new window with the same center and a different size.
func (w *Window) Resized(size int) *Window {
	return NewWindow(w.src, w.center, size)
}

// Image returns the sub-image at the window's own size.
func (w *Window) Image() image.Image {
	return w.AtSize(w.size)
}

// Rect returns the source rectangle covered by a size×size extraction.
func (w *Window) Rect(size int) image.Rectangle {
	origin := w.center.Sub(image.Pt(size/2, size/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}
}

// AtSize copies a size×size region around the center into a new image.
// Pixels outside the source are black.
func (w *Window) AtSize(size int) image.Image {
	if size < 1 {
		size = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if w.src == nil {
		return dst
	}

	r := w.Rect(size)
	visible := r.Intersect(w.src.Bounds())
	if visible.Empty() {
		return dst
	}
	draw.Draw(dst, visible.Sub(r.Min), w.src, visible.Min, draw.Src)
	return dst
}
