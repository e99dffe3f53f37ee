// Package terrain declares the uniform sets of the terrain shader programs
// and derives the values uploaded to them for each tile.
package terrain

import (
	"github.com/richinsley/goterrain/uniform"
)

// Variant names, used in diagnostics and to pick shader sources.
const (
	VariantPrelude = "terrainPrelude"
	VariantColor   = "terrain"
	VariantDepth   = "terrainDepth"
	VariantCoords  = "terrainCoords"
)

// Uniform names shared with the shader sources.
const (
	UDepth               = "u_depth"
	UTerrain             = "u_terrain"
	UTerrainDim          = "u_terrain_dim"
	UTerrainMatrix       = "u_terrain_matrix"
	UTerrainUnpack       = "u_terrain_unpack"
	UTerrainExaggeration = "u_terrain_exaggeration"
	UMatrix              = "u_matrix"
	UTexture             = "u_texture"
	UFogMatrix           = "u_fog_matrix"
	UFogColor            = "u_fog_color"
	UFogBlend            = "u_fog_blend"
	UTerrainCoordsID     = "u_terrain_coords_id"
)

// PreludeUniforms are the inputs every terrain-aware program shares for
// sampling the elevation texture.
type PreludeUniforms struct {
	Depth        *uniform.Uniform1i
	Terrain      *uniform.Uniform1i
	Dim          *uniform.Uniform1f
	Matrix       *uniform.UniformMatrix4f
	Unpack       *uniform.Uniform4f
	Exaggeration *uniform.Uniform1f

	descriptors []uniform.Descriptor
}

// NewPreludeUniforms binds the prelude set. It fails if locations lacks any
// prelude uniform.
func NewPreludeUniforms(ctx uniform.Context, locations uniform.Locations) (*PreludeUniforms, error) {
	d := uniform.NewDeclaration(ctx, locations, VariantPrelude)
	u := &PreludeUniforms{
		Depth:        d.Int(UDepth),
		Terrain:      d.Int(UTerrain),
		Dim:          d.Float(UTerrainDim),
		Matrix:       d.Mat4(UTerrainMatrix),
		Unpack:       d.Vec4(UTerrainUnpack),
		Exaggeration: d.Float(UTerrainExaggeration),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	u.descriptors = d.Descriptors()
	return u, nil
}

func (u *PreludeUniforms) Descriptors() []uniform.Descriptor { return u.descriptors }

func (u *PreludeUniforms) Set(v PreludeValues) {
	u.Depth.Set(v.Depth)
	u.Terrain.Set(v.Terrain)
	u.Dim.Set(v.Dim)
	u.Matrix.Set(v.Matrix)
	u.Unpack.Set(v.Unpack)
	u.Exaggeration.Set(v.Exaggeration)
}

// Uniforms is the set of the color pass, which draws the draped raster
// texture and mixes in atmospheric fog.
type Uniforms struct {
	Matrix    *uniform.UniformMatrix4f
	Texture   *uniform.Uniform1i
	FogMatrix *uniform.UniformMatrix4f
	FogColor  *uniform.UniformColor
	FogBlend  *uniform.Uniform2f

	descriptors []uniform.Descriptor
}

func NewUniforms(ctx uniform.Context, locations uniform.Locations) (*Uniforms, error) {
	d := uniform.NewDeclaration(ctx, locations, VariantColor)
	u := &Uniforms{
		Matrix:    d.Mat4(UMatrix),
		Texture:   d.Int(UTexture),
		FogMatrix: d.Mat4(UFogMatrix),
		FogColor:  d.Color(UFogColor),
		FogBlend:  d.Vec2(UFogBlend),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	u.descriptors = d.Descriptors()
	return u, nil
}

func (u *Uniforms) Descriptors() []uniform.Descriptor { return u.descriptors }

func (u *Uniforms) Set(v Values) {
	u.Matrix.Set(v.Matrix)
	u.Texture.Set(v.Texture)
	u.FogMatrix.Set(v.FogMatrix)
	u.FogColor.Set(v.FogColor)
	u.FogBlend.Set(v.FogBlend)
}

// DepthUniforms is the set of the depth pass.
type DepthUniforms struct {
	Matrix *uniform.UniformMatrix4f

	descriptors []uniform.Descriptor
}

func NewDepthUniforms(ctx uniform.Context, locations uniform.Locations) (*DepthUniforms, error) {
	d := uniform.NewDeclaration(ctx, locations, VariantDepth)
	u := &DepthUniforms{
		Matrix: d.Mat4(UMatrix),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	u.descriptors = d.Descriptors()
	return u, nil
}

func (u *DepthUniforms) Descriptors() []uniform.Descriptor { return u.descriptors }

func (u *DepthUniforms) Set(v DepthValues) {
	u.Matrix.Set(v.Matrix)
}

// CoordsUniforms is the set of the tile-coordinates pass, which writes each
// tile's id into the alpha channel so screen points can be mapped back to tiles.
type CoordsUniforms struct {
	Matrix   *uniform.UniformMatrix4f
	Texture  *uniform.Uniform1i
	CoordsID *uniform.Uniform1f

	descriptors []uniform.Descriptor
}

func NewCoordsUniforms(ctx uniform.Context, locations uniform.Locations) (*CoordsUniforms, error) {
	d := uniform.NewDeclaration(ctx, locations, VariantCoords)
	u := &CoordsUniforms{
		Matrix:   d.Mat4(UMatrix),
		Texture:  d.Int(UTexture),
		CoordsID: d.Float(UTerrainCoordsID),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	u.descriptors = d.Descriptors()
	return u, nil
}

func (u *CoordsUniforms) Descriptors() []uniform.Descriptor { return u.descriptors }

func (u *CoordsUniforms) Set(v CoordsValues) {
	u.Matrix.Set(v.Matrix)
	u.Texture.Set(v.Texture)
	u.CoordsID.Set(v.CoordsID)
}

// Declarations lists the uniform names and types of every variant, in
// declaration order. Shader sources are verified against it.
var Declarations = map[string][]uniform.Descriptor{
	VariantPrelude: {
		{Name: UDepth, Type: uniform.Int},
		{Name: UTerrain, Type: uniform.Int},
		{Name: UTerrainDim, Type: uniform.Float},
		{Name: UTerrainMatrix, Type: uniform.Mat4},
		{Name: UTerrainUnpack, Type: uniform.Vec4},
		{Name: UTerrainExaggeration, Type: uniform.Float},
	},
	VariantColor: {
		{Name: UMatrix, Type: uniform.Mat4},
		{Name: UTexture, Type: uniform.Int},
		{Name: UFogMatrix, Type: uniform.Mat4},
		{Name: UFogColor, Type: uniform.Color},
		{Name: UFogBlend, Type: uniform.Vec2},
	},
	VariantDepth: {
		{Name: UMatrix, Type: uniform.Mat4},
	},
	VariantCoords: {
		{Name: UMatrix, Type: uniform.Mat4},
		{Name: UTexture, Type: uniform.Int},
		{Name: UTerrainCoordsID, Type: uniform.Float},
	},
}
