package renderer

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goterrain/dem"
	"github.com/richinsley/goterrain/internal/gltest"
	"github.com/richinsley/goterrain/program"
	"github.com/richinsley/goterrain/shader"
	"github.com/richinsley/goterrain/style"
	"github.com/richinsley/goterrain/terrain"
	"github.com/richinsley/goterrain/tiles"
	"github.com/richinsley/goterrain/translator"
	"github.com/richinsley/goterrain/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPrograms(t *testing.T, dev *gltest.Device) map[string]*program.Program {
	t.Helper()
	programs := map[string]*program.Program{}
	for _, variant := range shader.Programs {
		src, err := shader.Get(variant)
		require.NoError(t, err)
		tr := &translator.Program{Vertex: src.Vertex, Fragment: src.Fragment, Mapped: map[string]string{}}
		for _, u := range src.Uniforms() {
			tr.Mapped[u.Name] = u.Name
		}
		p, err := program.Build(dev, src, tr)
		require.NoError(t, err)
		programs[variant] = p
	}
	return programs
}

func sampleTile(id tiles.ID) *Tile {
	return &Tile{
		ID:        id,
		Matrix:    mgl32.Translate3D(float32(id.X), float32(id.Y), 0),
		FogMatrix: mgl32.Ident4(),
		Terrain: terrain.TerrainData{
			HasDEM:       true,
			Dim:          256,
			Encoding:     dem.Mapbox,
			Exaggeration: 1,
			Matrix:       terrain.TerrainMatrix(id, id),
		},
		DEM:     10,
		Texture: 20,
	}
}

func callsAt(dev *gltest.Device, loc uniform.Location) []gltest.Call {
	var out []gltest.Call
	for _, c := range dev.UniformCalls() {
		if c.Location == loc {
			out = append(out, c)
		}
	}
	return out
}

func TestDrawColor(t *testing.T) {
	dev := gltest.NewDevice()
	programs := buildPrograms(t, dev)
	sky := style.NewSky()
	r, err := Bind(dev, sky, programs)
	require.NoError(t, err)

	r.BeginFrame(65, 7)
	dev.Reset()
	drawn := 0
	r.DrawColor(sampleTile(tiles.ID{Z: 2, X: 1, Y: 1}), func() { drawn++ })

	assert.Equal(t, 1, drawn)
	assert.Equal(t, programs[terrain.VariantColor].ID, dev.Current)
	assert.Equal(t, uint32(7), dev.Textures[terrain.DepthTextureUnit])
	assert.Equal(t, uint32(10), dev.Textures[terrain.TerrainTextureUnit])
	assert.Equal(t, uint32(20), dev.Textures[terrain.TextureUnit])

	// prelude (6) and color (5) uniforms are all uploaded the first time
	assert.Len(t, dev.UniformCalls(), 11)

	fog := callsAt(dev, programs[terrain.VariantColor].Locations[terrain.UFogBlend])
	require.Len(t, fog, 1)
	assert.InDelta(t, sky.FogBlend(), fog[0].Args[0], 1e-6)
	assert.InDelta(t, 0.5, fog[0].Args[1], 1e-6)

	// a neighbour with its own DEM at the same zoom changes the tile matrix only
	dev.Reset()
	next := sampleTile(tiles.ID{Z: 2, X: 2, Y: 1})
	r.DrawColor(next, func() {})
	calls := dev.UniformCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "UniformMatrix4fv", calls[0].Op)
	assert.Equal(t, programs[terrain.VariantColor].Locations[terrain.UMatrix], calls[0].Location)
	assert.Equal(t, next.Matrix, calls[0].Matrix)
}

func TestDrawDepth(t *testing.T) {
	dev := gltest.NewDevice()
	programs := buildPrograms(t, dev)
	r, err := Bind(dev, style.NewSky(), programs)
	require.NoError(t, err)

	r.BeginFrame(0, 0)
	tile := sampleTile(tiles.ID{Z: 3, X: 4, Y: 5})
	dev.Reset()
	r.DrawDepth(tile, func() {})

	assert.Equal(t, programs[terrain.VariantDepth].ID, dev.Current)
	m := callsAt(dev, programs[terrain.VariantDepth].Locations[terrain.UMatrix])
	require.Len(t, m, 1)
	assert.Equal(t, tile.Matrix, m[0].Matrix)
}

func TestDrawCoordsAssignsIDs(t *testing.T) {
	dev := gltest.NewDevice()
	programs := buildPrograms(t, dev)
	r, err := Bind(dev, style.NewSky(), programs)
	require.NoError(t, err)
	idLoc := programs[terrain.VariantCoords].Locations[terrain.UTerrainCoordsID]

	r.BeginFrame(0, 0)
	a := tiles.ID{Z: 5, X: 1, Y: 2}
	b := tiles.ID{Z: 5, X: 2, Y: 2}

	dev.Reset()
	id, err := r.DrawCoords(sampleTile(a), func() {})
	require.NoError(t, err)
	assert.Equal(t, 255, id)
	up := callsAt(dev, idLoc)
	require.Len(t, up, 1)
	assert.Equal(t, float32(1), up[0].Args[0])

	id, err = r.DrawCoords(sampleTile(b), func() {})
	require.NoError(t, err)
	assert.Equal(t, 254, id)

	got, ok := r.TileAt(255)
	assert.True(t, ok)
	assert.Equal(t, a, got)
	got, ok = r.TileAt(254)
	assert.True(t, ok)
	assert.Equal(t, b, got)

	r.BeginFrame(0, 0)
	_, ok = r.TileAt(255)
	assert.False(t, ok)
}

func TestDrawCoordsFullFrame(t *testing.T) {
	dev := gltest.NewDevice()
	r, err := Bind(dev, style.NewSky(), buildPrograms(t, dev))
	require.NoError(t, err)

	r.BeginFrame(0, 0)
	for i := 0; i < terrain.MaxCoordsTiles; i++ {
		_, err := r.DrawCoords(sampleTile(tiles.ID{Z: 10, X: i, Y: 0}), func() {})
		require.NoError(t, err)
	}
	drawn := false
	_, err = r.DrawCoords(sampleTile(tiles.ID{Z: 10, X: 999, Y: 0}), func() { drawn = true })
	assert.ErrorIs(t, err, terrain.ErrCoordsIndexFull)
	assert.False(t, drawn)
}

func TestBindFailsOnMissingUniform(t *testing.T) {
	dev := gltest.NewDevice()
	programs := buildPrograms(t, dev)
	delete(programs[terrain.VariantColor].Locations, terrain.UFogColor)

	_, err := Bind(dev, style.NewSky(), programs)
	require.ErrorIs(t, err, uniform.ErrMissingUniform)
	assert.Contains(t, err.Error(), terrain.UFogColor)
	assert.Contains(t, err.Error(), terrain.VariantColor)
}

func TestBindFailsOnMissingProgram(t *testing.T) {
	dev := gltest.NewDevice()
	programs := buildPrograms(t, dev)
	delete(programs, terrain.VariantDepth)

	_, err := Bind(dev, style.NewSky(), programs)
	assert.ErrorContains(t, err, terrain.VariantDepth)
}

func TestDestroy(t *testing.T) {
	dev := gltest.NewDevice()
	programs := buildPrograms(t, dev)
	r, err := Bind(dev, style.NewSky(), programs)
	require.NoError(t, err)

	ids := []uint32{}
	for _, p := range programs {
		ids = append(ids, p.ID)
	}
	r.Destroy()
	for _, id := range ids {
		assert.True(t, dev.Programs[id].Deleted)
	}
}

func TestSetSkyChangesFogOnly(t *testing.T) {
	dev := gltest.NewDevice()
	programs := buildPrograms(t, dev)
	r, err := Bind(dev, style.NewSky(), programs)
	require.NoError(t, err)

	tile := sampleTile(tiles.ID{Z: 4, X: 3, Y: 3})
	r.BeginFrame(80, 0)
	r.DrawColor(tile, func() {})

	sky, err := style.LoadSky(strings.NewReader(`{"sky": {"fog-color": "#ff0000"}}`))
	require.NoError(t, err)
	r.SetSky(sky)

	dev.Reset()
	r.DrawColor(tile, func() {})
	calls := dev.UniformCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, programs[terrain.VariantColor].Locations[terrain.UFogColor], calls[0].Location)
	assert.Equal(t, []float32{1, 0, 0, 1}, calls[0].Args)
}
