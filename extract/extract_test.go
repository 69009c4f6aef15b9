package extract

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(colors []color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		img.Set(i, 0, c)
	}
	return img
}

func TestMedianCutRejectsZeroTarget(t *testing.T) {
	img := solidImage([]color.RGBA{{255, 0, 0, 255}})
	_, err := MedianCut(img, 0)
	require.Error(t, err)
}

func TestMedianCutCapsAtUniqueColorCount(t *testing.T) {
	img := solidImage([]color.RGBA{
		{255, 0, 0, 255}, {255, 0, 0, 255}, {0, 255, 0, 255},
	})
	pal, err := MedianCut(img, 10)
	require.NoError(t, err)
	assert.Len(t, pal, 2)
}

func TestMedianCutProducesRequestedCount(t *testing.T) {
	colors := []color.RGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255},
		{255, 255, 0, 255}, {0, 255, 255, 255}, {255, 0, 255, 255},
	}
	img := solidImage(colors)
	pal, err := MedianCut(img, 3)
	require.NoError(t, err)
	assert.Len(t, pal, 3)
}

func TestMedianCutSingleColorImageYieldsOneEntry(t *testing.T) {
	img := solidImage([]color.RGBA{{10, 20, 30, 255}, {10, 20, 30, 255}, {10, 20, 30, 255}})
	pal, err := MedianCut(img, 5)
	require.NoError(t, err)
	require.Len(t, pal, 1)
	assert.Equal(t, uint8(10), pal[0][0])
	assert.Equal(t, uint8(20), pal[0][1])
	assert.Equal(t, uint8(30), pal[0][2])
}
