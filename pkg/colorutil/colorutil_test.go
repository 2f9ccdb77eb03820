package colorutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse(" Cyan ")
	require.NoError(t, err)
	assert.Equal(t, Cyan, c)

	_, err = Parse("chartreuse")
	assert.ErrorContains(t, err, "chartreuse")
}

func TestBlend(t *testing.T) {
	assert.Equal(t, Black, Blend(Black, White, 0))
	assert.Equal(t, White, Blend(Black, White, 1))
	assert.Equal(t, White, Blend(Black, White, 7))
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, Blend(Black, White, 0.5))
}

func TestOverlay(t *testing.T) {
	src := image.NewGray(image.Rect(10, 10, 14, 14))
	out := Overlay(src, func(x, y int) bool { return x == 1 && y == 2 }, Magenta, 1)

	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Equal(t, Magenta, out.RGBAAt(1, 2))
	assert.Equal(t, Black, out.RGBAAt(0, 0))
}
