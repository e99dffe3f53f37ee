package dem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElevation(t *testing.T) {
	// mapbox: sea level is 100000 * 0.1 above the -10000 offset
	// 100000 = 1*65536 + 134*256 + 160
	assert.InDelta(t, 0.0, Mapbox.Elevation(1, 134, 160), 1e-3)
	assert.InDelta(t, -10000.0, Mapbox.Elevation(0, 0, 0), 1e-3)

	// terrarium: 128*256 - 32768 = 0
	assert.InDelta(t, 0.0, Terrarium.Elevation(128, 0, 0), 1e-6)
	assert.InDelta(t, 1.5, Terrarium.Elevation(128, 1, 128), 1e-6)
}

func TestParseEncoding(t *testing.T) {
	e, err := ParseEncoding("terrarium")
	require.NoError(t, err)
	assert.Equal(t, Terrarium, e)

	e, err = ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, Mapbox, e)

	_, err = ParseEncoding("lerc")
	assert.Error(t, err)
	assert.Equal(t, "terrarium", Terrarium.String())
}

func TestPixelRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{Mapbox, Terrarium} {
		for _, h := range []float64{-412.3, 0, 1.5, 2917.1, 8848.8} {
			r, g, b := enc.Pixel(h)
			assert.InDelta(t, h, enc.Elevation(r, g, b), 0.06, "%s %v", enc, h)
		}
	}

	r, g, b := Mapbox.Pixel(-20000)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestGenerate(t *testing.T) {
	d := Terrarium.Generate(4, func(x, y float64) float64 { return 100 })
	assert.Equal(t, 4, d.Dim)
	px := d.Pixels
	require.Len(t, px, 6*6*4)
	for i := 0; i < len(px); i += 4 {
		assert.InDelta(t, 100.0, Terrarium.Elevation(px[i], px[i+1], px[i+2]), 1e-6)
		assert.Equal(t, uint8(255), px[i+3])
	}
}
