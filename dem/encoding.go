// Package dem describes how elevation is packed into the RGB channels of
// raster DEM tiles.
package dem

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Encoding int

const (
	// Mapbox terrain-RGB: height = -10000 + (R*65536 + G*256 + B) * 0.1
	Mapbox Encoding = iota
	// Terrarium: height = R*256 + G + B/256 - 32768
	Terrarium
)

func (e Encoding) String() string {
	switch e {
	case Mapbox:
		return "mapbox"
	case Terrarium:
		return "terrarium"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// ParseEncoding accepts the names used by raster-dem sources.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "mapbox", "":
		return Mapbox, nil
	case "terrarium":
		return Terrarium, nil
	}
	return 0, fmt.Errorf("unknown dem encoding %q", s)
}

// UnpackVector returns the weights the shader applies to a sampled pixel:
// elevation = dot(rgb*255, v.xyz) - v.w
func (e Encoding) UnpackVector() mgl32.Vec4 {
	if e == Terrarium {
		return mgl32.Vec4{256.0, 1.0, 1.0 / 256.0, 32768.0}
	}
	return mgl32.Vec4{6553.6, 25.6, 0.1, 10000.0}
}

// Elevation decodes one pixel on the CPU, using the same weights as the shader.
func (e Encoding) Elevation(r, g, b uint8) float64 {
	v := e.UnpackVector()
	return float64(r)*float64(v[0]) + float64(g)*float64(v[1]) + float64(b)*float64(v[2]) - float64(v[3])
}

// Pixel encodes an elevation in meters, rounded to the encoding's precision.
// Elevations outside the representable range are clamped.
func (e Encoding) Pixel(elevation float64) (r, g, b uint8) {
	var v float64
	if e == Terrarium {
		v = math.Round((elevation + 32768) * 256)
	} else {
		v = math.Round((elevation + 10000) * 10)
	}
	v = math.Max(0, math.Min(v, 1<<24-1))
	n := uint32(v)
	return uint8(n >> 16), uint8(n >> 8), uint8(n)
}

// Generate builds a dim x dim DEM tile by sampling height at normalized tile
// positions in [0,1]. Border pixels sample the clamped edge.
func (e Encoding) Generate(dim int, height func(x, y float64) float64) *Data {
	size := dim + 2
	pixels := make([]uint8, 0, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx := (float64(x) - 0.5) / float64(dim)
			fy := (float64(y) - 0.5) / float64(dim)
			r, g, b := e.Pixel(height(math.Max(0, math.Min(fx, 1)), math.Max(0, math.Min(fy, 1))))
			pixels = append(pixels, r, g, b, 255)
		}
	}
	return &Data{Dim: dim, Encoding: e, Pixels: pixels}
}
