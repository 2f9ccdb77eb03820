package segment

// DefaultParams returns cascade parameters with only the Baseline stage
// enabled.
func DefaultParams() Params {
	return Params{
		Strategies: []Strategy{Baseline},

		// ±10% extraction size for the zoom stages
		ZoomOutFactor: 1.1,
		ZoomInFactor:  0.9,

		Otsu: DefaultOtsuParams(),
	}
}

// DefaultOtsuParams returns the unsupervised fallback defaults.
func DefaultOtsuParams() OtsuParams {
	return OtsuParams{
		MinRegionPixels: 100, // regions of 100 px or fewer are noise
		CloseKernelSize: 3,
	}
}

// Params configures a Cascade.
type Params struct {
	// Strategies are tried in order until one yields a central mask.
	Strategies []Strategy

	ZoomOutFactor float64
	ZoomInFactor  float64

	Otsu OtsuParams
}

// OtsuParams configures the Otsu threshold fallback.
type OtsuParams struct {
	// MinRegionPixels drops connected components with this many pixels or fewer.
	MinRegionPixels int
	// CloseKernelSize is the cross-shaped structuring element size for the
	// morphological closing. Values below 2 disable closing.
	CloseKernelSize int
}

// WithFallbacks returns a copy of params whose strategy list is Baseline
// followed by the enabled fallbacks.
func (p Params) WithFallbacks(f Fallbacks) Params {
	p.Strategies = f.Strategies()
	return p
}

// WithStrategies returns a copy of params with an explicit strategy order.
func (p Params) WithStrategies(s ...Strategy) Params {
	p.Strategies = append([]Strategy(nil), s...)
	return p
}

// WithZoom returns a copy of params with custom zoom factors.
func (p Params) WithZoom(out, in float64) Params {
	p.ZoomOutFactor = out
	p.ZoomInFactor = in
	return p
}

// WithOtsu returns a copy of params with custom Otsu settings.
func (p Params) WithOtsu(o OtsuParams) Params {
	p.Otsu = o
	return p
}
