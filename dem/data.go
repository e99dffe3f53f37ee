package dem

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

// Data is a square DEM tile with a one pixel border, stored as RGBA8 rows of
// Dim+2 pixels. The border duplicates the outermost pixels until neighbour
// tiles fill it in.
type Data struct {
	Dim      int
	Encoding Encoding
	Pixels   []uint8
}

// Stride is the row length in bytes.
func (d *Data) Stride() int { return (d.Dim + 2) * 4 }

// FromImage copies a square DEM image into Data.
func FromImage(img image.Image, enc Encoding) (*Data, error) {
	b := img.Bounds()
	if b.Dx() != b.Dy() || b.Dx() == 0 {
		return nil, fmt.Errorf("dem image must be square, got %dx%d", b.Dx(), b.Dy())
	}
	dim := b.Dx()

	rgba := image.NewRGBA(image.Rect(0, 0, dim+2, dim+2))
	draw.Draw(rgba, image.Rect(1, 1, dim+1, dim+1), img, b.Min, draw.Src)

	d := &Data{Dim: dim, Encoding: enc, Pixels: rgba.Pix}
	d.backfillBorder()
	return d, nil
}

// Decode reads a PNG or WebP DEM tile.
func Decode(r io.Reader, enc Encoding) (*Data, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dem image: %w", err)
	}
	return FromImage(img, enc)
}

func (d *Data) backfillBorder() {
	size := d.Dim + 2
	clampi := func(v int) int { return max(1, min(v, d.Dim)) }
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x > 0 && x <= d.Dim && y > 0 && y <= d.Dim {
				continue
			}
			src := (clampi(y)*size + clampi(x)) * 4
			dst := (y*size + x) * 4
			copy(d.Pixels[dst:dst+4], d.Pixels[src:src+4])
		}
	}
}

// Elevation returns the elevation at pixel (x, y) of the tile proper;
// -1 and Dim address the border.
func (d *Data) Elevation(x, y int) float64 {
	i := ((y+1)*(d.Dim+2) + x + 1) * 4
	return d.Encoding.Elevation(d.Pixels[i], d.Pixels[i+1], d.Pixels[i+2])
}
