// Package segment extracts a central foreground mask from a spot image using
// a model predictor, falling back through progressively more expensive
// strategies when the predictor finds nothing.
package segment

import (
	"fmt"
	"strings"
)

// Strategy is one stage of the segmentation cascade.
type Strategy int

const (
	// Baseline runs the predictor on the sub-image at its configured size.
	Baseline Strategy = iota
	// ZoomOut runs the predictor on a larger extraction (more context).
	ZoomOut
	// ZoomIn runs the predictor on a smaller extraction.
	ZoomIn
	// ContrastEnhance runs the predictor on a histogram-equalized sub-image.
	ContrastEnhance
	// OtsuThreshold replaces the predictor with unsupervised Otsu segmentation.
	OtsuThreshold
)

var strategyNames = map[Strategy]string{
	Baseline:        "baseline",
	ZoomOut:         "zoom-out",
	ZoomIn:          "zoom-in",
	ContrastEnhance: "contrast",
	OtsuThreshold:   "otsu",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// NeedsWindow reports whether the strategy re-extracts the sub-image and so
// only applies when a larger reference image is available.
func (s Strategy) NeedsWindow() bool {
	return s == ZoomOut || s == ZoomIn
}

// UsesPredictor reports whether the strategy calls the model predictor.
func (s Strategy) UsesPredictor() bool {
	return s != OtsuThreshold
}

// ParseStrategy parses a strategy name as printed by String.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown segmentation strategy %q", name)
}

// ParseStrategies parses an explicit cascade order such as
// "baseline,zoom-in,otsu". Repeated strategies are an error.
func ParseStrategies(names []string) ([]Strategy, error) {
	out := make([]Strategy, 0, len(names))
	seen := make(map[Strategy]bool, len(names))
	for _, name := range names {
		s, err := ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			return nil, fmt.Errorf("segmentation strategy %q listed twice", s.String())
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// Fallbacks enables the optional stages that follow Baseline.
type Fallbacks struct {
	ZoomOut  bool
	ZoomIn   bool
	Contrast bool
	Otsu     bool
}

// AllFallbacks enables every optional stage.
func AllFallbacks() Fallbacks {
	return Fallbacks{ZoomOut: true, ZoomIn: true, Contrast: true, Otsu: true}
}

// Strategies returns Baseline followed by the enabled stages in cascade order.
func (f Fallbacks) Strategies() []Strategy {
	s := []Strategy{Baseline}
	if f.ZoomOut {
		s = append(s, ZoomOut)
	}
	if f.ZoomIn {
		s = append(s, ZoomIn)
	}
	if f.Contrast {
		s = append(s, ContrastEnhance)
	}
	if f.Otsu {
		s = append(s, OtsuThreshold)
	}
	return s
}
