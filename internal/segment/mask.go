package segment

import (
	"image"

	"zircon-dims/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// Mask is a binary foreground region with the same shape as the image it was
// extracted from. The zero Mask is the empty result.
type Mask struct {
	Width  int
	Height int
	Pix    []bool // row-major, len Width*Height
}

// NewMask creates an all-background mask.
func NewMask(width, height int) Mask {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return Mask{Width: width, Height: height, Pix: make([]bool, width*height)}
}

// Empty reports whether the mask has no pixels at all.
func (m Mask) Empty() bool {
	return m.Width == 0 || m.Height == 0
}

// In reports whether (x, y) is inside the mask's frame.
func (m Mask) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At reports whether (x, y) is foreground. Out-of-frame points are background.
func (m Mask) At(x, y int) bool {
	if !m.In(x, y) {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background.
func (m Mask) Set(x, y int, v bool) {
	if m.In(x, y) {
		m.Pix[y*m.Width+x] = v
	}
}

// Area returns the foreground pixel count.
func (m Mask) Area() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Bounds returns the bounding box of the foreground pixels.
func (m Mask) Bounds() image.Rectangle {
	r := image.Rectangle{}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// Centroid returns the mean foreground position. ok is false for an empty
// foreground.
func (m Mask) Centroid() (c geometry.Point2D, ok bool) {
	cols, colCounts := axisHistogram(m.Width)
	rows, rowCounts := axisHistogram(m.Height)
	total := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] {
				colCounts[x]++
				rowCounts[y]++
				total++
			}
		}
	}
	if total == 0 {
		return geometry.Point2D{}, false
	}
	return geometry.Point2D{X: stat.Mean(cols, colCounts), Y: stat.Mean(rows, rowCounts)}, true
}

// axisHistogram returns pixel positions 0..n-1 and a zeroed weight per position.
func axisHistogram(n int) (positions, weights []float64) {
	positions = make([]float64, n)
	for i := range positions {
		positions[i] = float64(i)
	}
	return positions, make([]float64, n)
}

// Gray renders the mask as an 8-bit image (foreground 255).
func (m Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v {
			img.Pix[(i/m.Width)*img.Stride+i%m.Width] = 255
		}
	}
	return img
}
