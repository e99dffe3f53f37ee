// Package renderer draws terrain tiles with the terrain programs.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goterrain/graphics"
	"github.com/richinsley/goterrain/program"
	"github.com/richinsley/goterrain/shader"
	"github.com/richinsley/goterrain/terrain"
	"github.com/richinsley/goterrain/tiles"
)

// Tile is everything needed to draw one terrain tile.
type Tile struct {
	ID tiles.ID
	// Matrix is the tile's projection matrix.
	Matrix mgl32.Mat4
	// FogMatrix projects into the fog depth range; only the color pass uses it.
	FogMatrix mgl32.Mat4
	Terrain   terrain.TerrainData
	// DEM is the elevation texture, Texture the draped raster (color pass)
	// or the tile coordinates texture (coords pass).
	DEM     uint32
	Texture uint32
}

type pass struct {
	program *program.Program
	prelude *terrain.PreludeUniforms
}

// Terrain owns the color, depth and coords programs and their uniform sets.
type Terrain struct {
	dev graphics.Device
	sky terrain.SkyState

	color  pass
	depth  pass
	coords pass

	colorUniforms  *terrain.Uniforms
	depthUniforms  *terrain.DepthUniforms
	coordsUniforms *terrain.CoordsUniforms

	pitch        float64
	depthTexture uint32
	coordsIndex  terrain.CoordsIndex
}

// New links the terrain programs on dev and binds their uniforms.
func New(dev graphics.Device, sky terrain.SkyState, gles bool) (*Terrain, error) {
	programs := make(map[string]*program.Program, len(shader.Programs))
	for _, variant := range shader.Programs {
		p, err := program.Link(dev, variant, gles)
		if err != nil {
			for _, linked := range programs {
				linked.Delete(dev)
			}
			return nil, err
		}
		programs[variant] = p
	}
	t, err := Bind(dev, sky, programs)
	if err != nil {
		for _, p := range programs {
			p.Delete(dev)
		}
		return nil, err
	}
	return t, nil
}

// Bind creates the uniform sets for already linked programs, keyed by
// variant. The Terrain takes ownership of the programs.
func Bind(dev graphics.Device, sky terrain.SkyState, programs map[string]*program.Program) (*Terrain, error) {
	t := &Terrain{dev: dev, sky: sky}

	var err error
	bindPass := func(p *pass, variant string) error {
		p.program = programs[variant]
		if p.program == nil {
			return fmt.Errorf("no %s program", variant)
		}
		p.prelude, err = terrain.NewPreludeUniforms(dev, p.program.Locations)
		if err != nil {
			return fmt.Errorf("failed to bind %s prelude uniforms: %w", variant, err)
		}
		return nil
	}

	if err := errors.Join(
		bindPass(&t.color, terrain.VariantColor),
		bindPass(&t.depth, terrain.VariantDepth),
		bindPass(&t.coords, terrain.VariantCoords),
	); err != nil {
		return nil, err
	}

	if t.colorUniforms, err = terrain.NewUniforms(dev, t.color.program.Locations); err != nil {
		return nil, fmt.Errorf("failed to bind color uniforms: %w", err)
	}
	if t.depthUniforms, err = terrain.NewDepthUniforms(dev, t.depth.program.Locations); err != nil {
		return nil, fmt.Errorf("failed to bind depth uniforms: %w", err)
	}
	if t.coordsUniforms, err = terrain.NewCoordsUniforms(dev, t.coords.program.Locations); err != nil {
		return nil, fmt.Errorf("failed to bind coords uniforms: %w", err)
	}
	return t, nil
}

// BeginFrame starts a frame at the given camera pitch, in degrees.
// depthTexture is the packed depth of the previous depth pass, sampled by
// the prelude. Coords ids from earlier frames become invalid.
func (t *Terrain) BeginFrame(pitch float64, depthTexture uint32) {
	t.pitch = pitch
	t.depthTexture = depthTexture
	t.coordsIndex.Reset()
}

func (t *Terrain) prepare(p *pass, tile *Tile) {
	t.dev.UseProgram(p.program.ID)
	t.dev.BindTexture(terrain.DepthTextureUnit, t.depthTexture)
	t.dev.BindTexture(terrain.TerrainTextureUnit, tile.DEM)
	p.prelude.Set(terrain.PreludeUniformValues(tile.Terrain))
}

// SetSky replaces the atmosphere used by later color draws.
func (t *Terrain) SetSky(sky terrain.SkyState) { t.sky = sky }

// DrawColor draws a tile with its draped raster and fog.
func (t *Terrain) DrawColor(tile *Tile, draw func()) {
	t.prepare(&t.color, tile)
	t.dev.BindTexture(terrain.TextureUnit, tile.Texture)
	t.colorUniforms.Set(terrain.UniformValues(tile.Matrix, tile.FogMatrix, t.sky, t.pitch))
	draw()
}

// DrawDepth draws a tile into the depth framebuffer.
func (t *Terrain) DrawDepth(tile *Tile, draw func()) {
	t.prepare(&t.depth, tile)
	t.depthUniforms.Set(terrain.DepthUniformValues(tile.Matrix))
	draw()
}

// DrawCoords draws a tile into the coords framebuffer and returns the id its
// pixels carry in the alpha channel.
func (t *Terrain) DrawCoords(tile *Tile, draw func()) (int, error) {
	id, err := t.coordsIndex.Push(tile.ID)
	if err != nil {
		return 0, fmt.Errorf("tile %s: %w", tile.ID, err)
	}
	t.prepare(&t.coords, tile)
	t.dev.BindTexture(terrain.TextureUnit, tile.Texture)
	t.coordsUniforms.Set(terrain.CoordsUniformValues(tile.Matrix, id))
	draw()
	return id, nil
}

// TileAt resolves the alpha byte of a coords framebuffer pixel to the tile
// drawn there in the current frame.
func (t *Terrain) TileAt(alpha uint8) (tiles.ID, bool) {
	return t.coordsIndex.Lookup(terrain.DecodeCoordsID(float32(alpha) / 255))
}

// Destroy deletes the programs.
func (t *Terrain) Destroy() {
	for _, p := range []*pass{&t.color, &t.depth, &t.coords} {
		p.program.Delete(t.dev)
	}
}
