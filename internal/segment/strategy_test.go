package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyNames(t *testing.T) {
	for _, s := range []Strategy{Baseline, ZoomOut, ZoomIn, ContrastEnhance, OtsuThreshold} {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := ParseStrategy(" " + s.String() + " ")
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		})
	}
	assert.Equal(t, "unknown", Strategy(42).String())

	_, err := ParseStrategy("sharpen")
	assert.Error(t, err)
}

func TestParseStrategies(t *testing.T) {
	got, err := ParseStrategies([]string{"baseline", "OTSU", " zoom-in"})
	require.NoError(t, err)
	assert.Equal(t, []Strategy{Baseline, OtsuThreshold, ZoomIn}, got)

	got, err = ParseStrategies(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseStrategies([]string{"otsu", "otsu"})
	assert.ErrorContains(t, err, "twice")

	_, err = ParseStrategies([]string{"baseline", "blur"})
	assert.ErrorContains(t, err, "blur")
}

func TestStrategyTraits(t *testing.T) {
	assert.True(t, ZoomOut.NeedsWindow())
	assert.True(t, ZoomIn.NeedsWindow())
	assert.False(t, ContrastEnhance.NeedsWindow())
	assert.True(t, ContrastEnhance.UsesPredictor())
	assert.False(t, OtsuThreshold.UsesPredictor())
}

func TestFallbacksOrder(t *testing.T) {
	assert.Equal(t, []Strategy{Baseline}, Fallbacks{}.Strategies())
	assert.Equal(t, []Strategy{Baseline, ZoomOut, ZoomIn, ContrastEnhance, OtsuThreshold},
		AllFallbacks().Strategies())
	assert.Equal(t, []Strategy{Baseline, ZoomIn, OtsuThreshold},
		Fallbacks{Otsu: true, ZoomIn: true}.Strategies())
}

func TestParamsBuilders(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, []Strategy{Baseline}, p.Strategies)
	assert.Equal(t, 1.1, p.ZoomOutFactor)
	assert.Equal(t, 0.9, p.ZoomInFactor)
	assert.Equal(t, 100, p.Otsu.MinRegionPixels)

	q := p.WithFallbacks(AllFallbacks()).WithZoom(1.5, 0.5)
	assert.Len(t, q.Strategies, 5)
	assert.Equal(t, 1.5, q.ZoomOutFactor)
	// the original is untouched
	assert.Len(t, p.Strategies, 1)
	assert.Equal(t, 1.1, p.ZoomOutFactor)
}
