package dem

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terrariumImage(dim int, height func(x, y int) float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, dim, dim))
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			r, g, b := Terrarium.Pixel(height(x, y))
			img.Set(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	img := terrariumImage(4, func(x, y int) float64 { return float64(10*y + x) })

	d, err := FromImage(img, Terrarium)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Dim)
	assert.Len(t, d.Pixels, 6*d.Stride())

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.InDelta(t, float64(10*y+x), d.Elevation(x, y), 1e-6)
		}
	}

	// the border repeats the nearest edge pixel
	assert.InDelta(t, 0, d.Elevation(-1, -1), 1e-6)
	assert.InDelta(t, 3, d.Elevation(4, 0), 1e-6)
	assert.InDelta(t, 33, d.Elevation(4, 4), 1e-6)
	assert.InDelta(t, 20, d.Elevation(-1, 2), 1e-6)
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, terrariumImage(2, func(x, y int) float64 { return 250 })))

	d, err := Decode(&buf, Terrarium)
	require.NoError(t, err)
	assert.InDelta(t, 250, d.Elevation(1, 1), 1e-6)

	_, err = Decode(bytes.NewReader([]byte("not a png")), Terrarium)
	assert.Error(t, err)
}

func TestFromImageRejectsNonSquare(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 4, 2)), Mapbox)
	assert.Error(t, err)
}
