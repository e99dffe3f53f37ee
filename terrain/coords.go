package terrain

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goterrain/tiles"
)

// MaxCoordsTiles is how many tiles one coords framebuffer can tell apart:
// one per value of its 8 bit alpha channel.
const MaxCoordsTiles = 256

var ErrCoordsIndexFull = errors.New("coords index full")

// CoordsIndex hands out the coords ids of the tiles drawn into the coords
// framebuffer during one frame. Ids count down from 255 so an empty (zero
// alpha) pixel is only ambiguous once the index is full.
type CoordsIndex struct {
	tiles []tiles.ID
}

// Push registers a tile and returns its coords id.
func (c *CoordsIndex) Push(tile tiles.ID) (int, error) {
	if len(c.tiles) >= MaxCoordsTiles {
		return 0, ErrCoordsIndexFull
	}
	c.tiles = append(c.tiles, tile)
	return MaxCoordsTiles - len(c.tiles), nil
}

// Lookup returns the tile a coords id was issued for.
func (c *CoordsIndex) Lookup(coordsID int) (tiles.ID, bool) {
	i := MaxCoordsTiles - 1 - coordsID
	if i < 0 || i >= len(c.tiles) {
		return tiles.ID{}, false
	}
	return c.tiles[i], true
}

func (c *CoordsIndex) Len() int { return len(c.tiles) }

// Reset forgets all ids; call at the start of every frame.
func (c *CoordsIndex) Reset() { c.tiles = c.tiles[:0] }

// DecodeCoordsID recovers the integer id from a normalized alpha value read
// back from the coords framebuffer.
func DecodeCoordsID(alpha float32) int {
	return int(math.Round(float64(alpha) * coordsIDScale))
}

// TerrainMatrix maps extent coordinates of tile into texture coordinates of
// the DEM tile source, which is tile itself or one of its ancestors.
func TerrainMatrix(tile, source tiles.ID) mgl32.Mat4 {
	dz := tile.Z - source.Z
	if dz < 0 {
		dz = 0
	}
	dx := tile.X - source.X<<uint(dz)
	dy := tile.Y - source.Y<<uint(dz)
	size := float32(int(tiles.Extent) << dz)

	scale := mgl32.Scale3D(1/size, 1/size, 0)
	return scale.Mul4(mgl32.Translate3D(float32(dx*tiles.Extent), float32(dy*tiles.Extent), 0))
}
