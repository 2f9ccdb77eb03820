package segment

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
)

// Window is a view that can extract its sub-image at any size around a fixed
// center without changing its own state.
type Window interface {
	Size() int
	AtSize(size int) image.Image
}

// Attempt records one stage of a cascade run.
type Attempt struct {
	Strategy   Strategy
	Found      bool
	Candidates int   // masks handed to the selector
	Size       int   // sub-image edge length used, 0 when not applicable
	Err        error // predictor or image-processing failure
}

// Result is the outcome of a cascade run. Mask is only meaningful when Found
// is true; otherwise it is the empty Mask.
type Result struct {
	Found    bool
	Mask     Mask
	Strategy Strategy
	Attempts []Attempt
}

// Cascade runs the configured strategies in order and stops at the first
// one that yields a central mask.
type Cascade struct {
	predictor Predictor
	selector  Selector
	params    Params
	logger    *slog.Logger
}

var errNoPredictor = errors.New("no predictor configured")

// NewCascade creates a cascade around predictor.
func NewCascade(predictor Predictor, params Params) *Cascade {
	return &Cascade{
		predictor: predictor,
		selector:  CentralMask,
		params:    params,
		logger:    slog.Default(),
	}
}

// WithSelector replaces the central-mask selector.
func (c *Cascade) WithSelector(s Selector) *Cascade {
	if s != nil {
		c.selector = s
	}
	return c
}

// WithLogger sets the logger used for stage progress.
func (c *Cascade) WithLogger(l *slog.Logger) *Cascade {
	if l != nil {
		c.logger = l
	}
	return c
}

// Params returns the cascade's parameters.
func (c *Cascade) Params() Params {
	return c.params
}

// Segment runs every configured strategy against a window into a larger
// image. The window itself is never modified.
func (c *Cascade) Segment(w Window) Result {
	return c.run(&windowSource{w: w}, c.params.Strategies)
}

// SegmentImage runs the cascade on a standalone image. Zoom strategies need a
// surrounding image to re-crop from and are skipped.
func (c *Cascade) SegmentImage(img image.Image) Result {
	strategies := make([]Strategy, 0, len(c.params.Strategies))
	for _, s := range c.params.Strategies {
		if s.NeedsWindow() {
			c.logger.Debug("skipping strategy for standalone image", "strategy", s.String())
			continue
		}
		strategies = append(strategies, s)
	}
	return c.run(&imageSource{img: img}, strategies)
}

func (c *Cascade) run(src source, strategies []Strategy) Result {
	var res Result
	for _, s := range strategies {
		att, mask := c.attempt(s, src)
		res.Attempts = append(res.Attempts, att)
		if att.Err != nil {
			c.logger.Warn("segmentation stage failed", "strategy", s.String(), "error", att.Err)
		}
		if att.Found {
			res.Found = true
			res.Mask = mask
			res.Strategy = s
			return res
		}
	}
	return res
}

func (c *Cascade) attempt(s Strategy, src source) (Attempt, Mask) {
	att := Attempt{Strategy: s}
	if s.UsesPredictor() && c.predictor == nil {
		att.Err = errNoPredictor
		return att, Mask{}
	}

	var (
		masks []Mask
		err   error
	)
	switch s {
	case Baseline:
		var img image.Image
		img, att.Size = src.base()
		masks, err = c.predictor.Predict(img)
	case ZoomOut:
		c.logger.Info("trying segmentation of zoomed-out sub-image")
		var img image.Image
		img, att.Size = src.scaled(c.params.ZoomOutFactor)
		masks, err = c.predictor.Predict(img)
	case ZoomIn:
		c.logger.Info("trying segmentation of zoomed-in sub-image")
		var img image.Image
		img, att.Size = src.scaled(c.params.ZoomInFactor)
		masks, err = c.predictor.Predict(img)
	case ContrastEnhance:
		c.logger.Info("trying segmentation of contrast-enhanced sub-image")
		var img image.Image
		img, att.Size = src.base()
		var enhanced image.Image
		enhanced, err = EqualizeHistogram(img)
		if err == nil {
			masks, err = c.predictor.Predict(enhanced)
		}
	case OtsuThreshold:
		c.logger.Info("trying Otsu thresholding")
		var img image.Image
		img, att.Size = src.base()
		masks, err = OtsuMasks(img, c.params.Otsu)
	default:
		err = fmt.Errorf("unknown strategy %d", int(s))
	}

	if err != nil {
		att.Err = err
		return att, Mask{}
	}

	att.Candidates = len(masks)
	mask, found := c.selector(masks)
	att.Found = found
	if !found {
		return att, Mask{}
	}
	return att, mask
}

// source supplies sub-images to the strategies.
type source interface {
	// base returns the sub-image at its configured size.
	base() (image.Image, int)
	// scaled returns a fresh extraction at size × factor.
	scaled(factor float64) (image.Image, int)
}

type windowSource struct {
	w      Window
	cached image.Image
}

func (s *windowSource) base() (image.Image, int) {
	if s.cached == nil {
		s.cached = s.w.AtSize(s.w.Size())
	}
	return s.cached, s.w.Size()
}

func (s *windowSource) scaled(factor float64) (image.Image, int) {
	size := int(math.Round(float64(s.w.Size()) * factor))
	if size < 1 {
		size = 1
	}
	return s.w.AtSize(size), size
}

type imageSource struct {
	img image.Image
}

func (s *imageSource) base() (image.Image, int) {
	return s.img, 0
}

func (s *imageSource) scaled(float64) (image.Image, int) {
	return s.img, 0
}
