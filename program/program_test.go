package program

import (
	"errors"
	"testing"

	"github.com/richinsley/goterrain/internal/gltest"
	"github.com/richinsley/goterrain/shader"
	"github.com/richinsley/goterrain/terrain"
	"github.com/richinsley/goterrain/translator"
	"github.com/richinsley/goterrain/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranslation pretends every declared uniform survived translation
// under a prefixed name, except the ones listed in dropped.
func fakeTranslation(src shader.Source, dropped ...string) *translator.Program {
	p := &translator.Program{
		Vertex:   "vs:" + src.Variant,
		Fragment: "fs:" + src.Variant,
		Mapped:   map[string]string{},
		Types:    map[string]uint{},
	}
	skip := map[string]bool{}
	for _, name := range dropped {
		skip[name] = true
	}
	for _, u := range src.Uniforms() {
		if !skip[u.Name] {
			p.Mapped[u.Name] = "_u" + u.Name
		}
	}
	return p
}

func TestVerifyAll(t *testing.T) {
	assert.NoError(t, VerifyAll())
}

func TestVerifyUnknownVariant(t *testing.T) {
	assert.Error(t, Verify("terrainShadow"))
}

func TestBuildResolvesMappedNames(t *testing.T) {
	dev := gltest.NewDevice()
	src, err := shader.Get(terrain.VariantCoords)
	require.NoError(t, err)

	p, err := Build(dev, src, fakeTranslation(src))
	require.NoError(t, err)
	assert.Equal(t, terrain.VariantCoords, p.Variant)

	created := dev.Programs[p.ID]
	require.NotNil(t, created)
	assert.Equal(t, "vs:terrainCoords", created.VertexSource)

	for _, u := range src.Uniforms() {
		loc, ok := p.Locations[u.Name]
		require.True(t, ok, u.Name)
		assert.True(t, loc.Active(), u.Name)
		assert.Equal(t, created.Locations["_u"+u.Name], loc)
	}

	// every set the program serves can bind against the result
	_, err = terrain.NewPreludeUniforms(dev, p.Locations)
	assert.NoError(t, err)
	_, err = terrain.NewCoordsUniforms(dev, p.Locations)
	assert.NoError(t, err)
}

func TestBuildMarksOptimizedAwayUniformsInactive(t *testing.T) {
	dev := gltest.NewDevice()
	src, err := shader.Get(terrain.VariantDepth)
	require.NoError(t, err)

	p, err := Build(dev, src, fakeTranslation(src, terrain.UTerrainExaggeration))
	require.NoError(t, err)

	loc, ok := p.Locations[terrain.UTerrainExaggeration]
	require.True(t, ok)
	assert.Equal(t, uniform.Inactive, loc)

	prelude, err := terrain.NewPreludeUniforms(dev, p.Locations)
	require.NoError(t, err)

	// the upload still happens; GL ignores writes to location -1
	dev.Reset()
	prelude.Set(terrain.PreludeUniformValues(terrain.TerrainData{Exaggeration: 2}))
	var inactive []gltest.Call
	for _, c := range dev.UniformCalls() {
		if !c.Location.Active() {
			inactive = append(inactive, c)
		}
	}
	require.Len(t, inactive, 1)
	assert.Equal(t, []float32{2}, inactive[0].Args)
}

func TestBuildRejectsMismatchedTypes(t *testing.T) {
	dev := gltest.NewDevice()
	src, err := shader.Get(terrain.VariantColor)
	require.NoError(t, err)

	tr := fakeTranslation(src)
	tr.Types[terrain.UFogBlend] = 0x1406 // GL_FLOAT, bound as vec2

	_, err = Build(dev, src, tr)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Empty(t, dev.Programs)
}

func TestBuildReturnsLinkError(t *testing.T) {
	dev := gltest.NewDevice()
	dev.LinkError = errors.New("0:12: undeclared identifier")
	src, err := shader.Get(terrain.VariantColor)
	require.NoError(t, err)

	_, err = Build(dev, src, fakeTranslation(src))
	assert.ErrorIs(t, err, dev.LinkError)
}

func TestDelete(t *testing.T) {
	dev := gltest.NewDevice()
	src, err := shader.Get(terrain.VariantDepth)
	require.NoError(t, err)
	p, err := Build(dev, src, fakeTranslation(src))
	require.NoError(t, err)

	id := p.ID
	p.Delete(dev)
	p.Delete(dev)
	assert.True(t, dev.Programs[id].Deleted)
	assert.Zero(t, p.ID)
}

func TestBuildTranslatedLeavesUnusedUniformInactive(t *testing.T) {
	dev := gltest.NewDevice()
	for _, variant := range shader.Programs {
		src, err := shader.Get(variant)
		require.NoError(t, err)
		tr, err := translator.Translate(src.Vertex, src.Fragment, false)
		require.NoError(t, err)

		p, err := Build(dev, src, tr)
		require.NoError(t, err, variant)
		assert.Equal(t, uniform.Inactive, p.Locations[terrain.UDepth], variant)
		assert.True(t, p.Locations[terrain.UMatrix].Active(), variant)
	}
}
