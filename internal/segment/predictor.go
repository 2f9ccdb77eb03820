package segment

import (
	"image"
	"math"

	"zircon-dims/pkg/geometry"
)

// Predictor is a segmentation model: it takes an image and returns candidate
// object masks, each with the image's shape.
type Predictor interface {
	Predict(img image.Image) ([]Mask, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(img image.Image) ([]Mask, error)

// Predict calls f(img).
func (f PredictorFunc) Predict(img image.Image) ([]Mask, error) {
	return f(img)
}

// NoCandidates is a Predictor that never finds anything. With it only the
// Otsu fallback can produce a mask.
var NoCandidates Predictor = PredictorFunc(func(image.Image) ([]Mask, error) {
	return nil, nil
})

// Selector picks the mask representing the object at the image center.
type Selector func(masks []Mask) (Mask, bool)

// centralRadiusFraction bounds how far (as a fraction of the smaller mask
// dimension) a centroid may sit from the center when no mask covers it.
const centralRadiusFraction = 0.1

// CentralMask is the default Selector. A mask covering the center pixel wins
// (the largest one if several do). Otherwise the mask whose centroid is
// nearest the center is chosen, if it lies within 10% of the smaller image
// dimension.
func CentralMask(masks []Mask) (Mask, bool) {
	best, bestArea := -1, 0
	for i, m := range masks {
		if m.Empty() || !m.At(m.Width/2, m.Height/2) {
			continue
		}
		if area := m.Area(); area > bestArea {
			best, bestArea = i, area
		}
	}
	if best >= 0 {
		return masks[best], true
	}

	bestDist := math.Inf(1)
	for i, m := range masks {
		c, ok := m.Centroid()
		if !ok {
			continue
		}
		center := geometry.Point2D{X: float64(m.Width / 2), Y: float64(m.Height / 2)}
		limit := centralRadiusFraction * float64(min(m.Width, m.Height))
		if d := c.Distance(center); d <= limit && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return masks[best], true
	}
	return Mask{}, false
}
