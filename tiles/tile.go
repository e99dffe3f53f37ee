package tiles

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Extent is the size of a tile's local coordinate space. Terrain mesh
// vertices are expressed in [0, Extent].
const Extent = 8192

// MaxZoom bounds Key packing: x and y must fit in 28 bits each.
const MaxZoom = 28

// ID represents a canonical tile in the slippy map scheme.
type ID struct {
	Z int
	X int
	Y int
}

func (t ID) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Key packs the tile into a single integer, unique for valid tiles.
func (t ID) Key() uint64 {
	return uint64(t.Z)<<56 | uint64(t.X)<<28 | uint64(t.Y)
}

// FromKey is the inverse of Key.
func FromKey(key uint64) ID {
	const mask = 1<<28 - 1
	return ID{Z: int(key >> 56), X: int(key >> 28 & mask), Y: int(key & mask)}
}

// Valid reports whether x and y are inside the zoom level's grid.
func (t ID) Valid() bool {
	if t.Z < 0 || t.Z > MaxZoom {
		return false
	}
	n := 1 << t.Z
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// Parent returns the tile one zoom level up. The parent of a z0 tile is itself.
func (t ID) Parent() ID {
	if t.Z == 0 {
		return t
	}
	return ID{Z: t.Z - 1, X: t.X >> 1, Y: t.Y >> 1}
}

// Ancestor returns the tile covering t at zoom z (z <= t.Z).
func (t ID) Ancestor(z int) ID {
	if z >= t.Z {
		return t
	}
	if z < 0 {
		z = 0
	}
	dz := uint(t.Z - z)
	return ID{Z: z, X: t.X >> dz, Y: t.Y >> dz}
}

// IsChildOf reports whether t lies strictly inside parent.
func (t ID) IsChildOf(parent ID) bool {
	return parent.Z < t.Z && t.Ancestor(parent.Z) == parent
}

// Children returns the four tiles one zoom level down.
func (t ID) Children() [4]ID {
	x, y, z := t.X*2, t.Y*2, t.Z+1
	return [4]ID{
		{Z: z, X: x, Y: y},
		{Z: z, X: x + 1, Y: y},
		{Z: z, X: x, Y: y + 1},
		{Z: z, X: x + 1, Y: y + 1},
	}
}

// Parse reads a tile written as z/x/y.
func Parse(s string) (ID, error) {
	var t ID
	var rest string
	n, _ := fmt.Sscanf(s, "%d/%d/%d%s", &t.Z, &t.X, &t.Y, &rest)
	if n != 3 || !t.Valid() {
		return ID{}, fmt.Errorf("invalid tile %q", s)
	}
	return t, nil
}

// At returns the tile containing a lon/lat point at zoom z.
func At(lon, lat float64, z int) ID {
	t := maptile.At(orb.Point{lon, lat}, maptile.Zoom(z))
	return ID{Z: int(t.Z), X: int(t.X), Y: int(t.Y)}
}

// Bound returns the tile's lon/lat bounds.
func (t ID) Bound() orb.Bound {
	return maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Z)).Bound()
}
