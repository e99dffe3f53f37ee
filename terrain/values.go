package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goterrain/dem"
	"github.com/richinsley/goterrain/style"
)

// Texture units the terrain programs sample from. The draped raster is
// always on unit 0; the prelude textures sit above it.
const (
	TextureUnit        int32 = 0
	DepthTextureUnit   int32 = 2
	TerrainTextureUnit int32 = 3
)

// coordsIDScale maps a tile coords id in [0,255] onto [0,1], matching how an
// 8 bit alpha channel is normalized when the coords framebuffer is read back.
const coordsIDScale = 255

// SkyState is the atmosphere input of the color pass.
type SkyState interface {
	FogColor() style.Color
	FogBlend() float32
	// FogBlendOpacity maps the camera pitch, in degrees, to a fog opacity in [0,1].
	FogBlendOpacity(pitch float64) float32
}

// PreludeValues are uploaded to PreludeUniforms.
type PreludeValues struct {
	Depth        int32
	Terrain      int32
	Dim          float32
	Matrix       mgl32.Mat4
	Unpack       mgl32.Vec4
	Exaggeration float32
}

// Values are uploaded to Uniforms.
type Values struct {
	Matrix    mgl32.Mat4
	Texture   int32
	FogMatrix mgl32.Mat4
	// FogColor is premultiplied RGBA.
	FogColor mgl32.Vec4
	// FogBlend is (fog-blend property, pitch dependent opacity).
	FogBlend mgl32.Vec2
}

// DepthValues are uploaded to DepthUniforms.
type DepthValues struct {
	Matrix mgl32.Mat4
}

// CoordsValues are uploaded to CoordsUniforms.
type CoordsValues struct {
	Matrix   mgl32.Mat4
	Texture  int32
	CoordsID float32
}

// TerrainData describes the elevation texture bound for one tile.
type TerrainData struct {
	// HasDEM is false while the tile's elevation data is not loaded; the
	// prelude then samples a flat surface.
	HasDEM       bool
	Dim          int
	Encoding     dem.Encoding
	Exaggeration float32
	// Matrix maps tile extent coordinates into the DEM texture, see TerrainMatrix.
	Matrix mgl32.Mat4
}

// PreludeUniformValues derives the prelude values for a tile.
func PreludeUniformValues(data TerrainData) PreludeValues {
	v := PreludeValues{
		Depth:        DepthTextureUnit,
		Terrain:      TerrainTextureUnit,
		Dim:          1,
		Matrix:       data.Matrix,
		Exaggeration: data.Exaggeration,
	}
	if data.HasDEM && data.Dim > 0 {
		v.Dim = float32(data.Dim)
		v.Unpack = data.Encoding.UnpackVector()
	}
	return v
}

// UniformValues derives the color pass values. The pitch only feeds the
// sky's opacity function; both fog blend components are passed on as is.
func UniformValues(matrix, fogMatrix mgl32.Mat4, sky SkyState, pitch float64) Values {
	return Values{
		Matrix:    matrix,
		Texture:   TextureUnit,
		FogMatrix: fogMatrix,
		FogColor:  sky.FogColor().Vec4(),
		FogBlend:  mgl32.Vec2{sky.FogBlend(), sky.FogBlendOpacity(pitch)},
	}
}

// DepthUniformValues derives the depth pass values.
func DepthUniformValues(matrix mgl32.Mat4) DepthValues {
	return DepthValues{Matrix: matrix}
}

// CoordsUniformValues derives the coords pass values. coordsID must be in
// [0,255]; it is not checked, and ids outside that range produce values
// outside [0,1]. Use a CoordsIndex to allocate ids.
func CoordsUniformValues(matrix mgl32.Mat4, coordsID int) CoordsValues {
	return CoordsValues{
		Matrix:   matrix,
		Texture:  TextureUnit,
		CoordsID: float32(coordsID) / coordsIDScale,
	}
}
