package shader

import (
	"fmt"

	"github.com/richinsley/goterrain/terrain"
)

// Sources are WebGL2 (GLSL ES 3.00) and are translated to the context's
// dialect before compiling.

const header = `#version 300 es
precision highp float;
`

// ─────────────────────────────── Terrain prelude ───────────────────────────────

// preludeVertex samples the elevation texture. Every terrain program's vertex
// stage starts with it.
const preludeVertex = `
uniform sampler2D u_terrain;
uniform float u_terrain_dim;
uniform mat4 u_terrain_matrix;
uniform vec4 u_terrain_unpack;
uniform float u_terrain_exaggeration;
uniform highp sampler2D u_depth;

const highp vec4 bitSh = vec4(256. * 256. * 256., 256. * 256., 256., 1.);
const highp vec4 bitShifts = vec4(1.) / bitSh;

highp float unpack(highp vec4 color) {
    return dot(color, bitShifts);
}

// opacity of a point behind the terrain surface, in [0,1]
highp float depthOpacity(vec3 frag) {
    highp float d = unpack(texture(u_depth, frag.xy * 0.5 + 0.5)) + 0.0001 - frag.z;
    return 1.0 - max(0.0, min(1.0, -d * 500.0));
}

float calculate_visibility(vec4 pos) {
    vec3 frag = pos.xyz / pos.w;
    highp float d = depthOpacity(frag);
    if (d > 0.95) return 1.0;
    return (d + depthOpacity(frag + vec3(0.0, 0.01, 0.0))) / 2.0;
}

float ele(vec2 pos) {
    vec4 rgb = (texture(u_terrain, pos) * 255.0) * u_terrain_unpack;
    return rgb.r + rgb.g + rgb.b - u_terrain_unpack.a;
}

// bilinear elevation at a tile extent position; the DEM carries a one pixel border
float get_elevation(vec2 pos) {
    vec2 coord = (u_terrain_matrix * vec4(pos, 0.0, 1.0)).xy * u_terrain_dim + 1.0;
    vec2 f = fract(coord);
    vec2 c = (floor(coord) + 0.5) / (u_terrain_dim + 2.0);
    float d = 1.0 / (u_terrain_dim + 2.0);
    float tl = ele(c);
    float tr = ele(c + vec2(d, 0.0));
    float bl = ele(c + vec2(0.0, d));
    float br = ele(c + vec2(d, d));
    float elevation = mix(mix(tl, tr, f.x), mix(bl, br, f.x), f.y);
    return elevation * u_terrain_exaggeration;
}
`

// ─────────────────────────────── Color / fog pass ───────────────────────────────

const terrainVertex = `
in vec3 a_pos3d;

uniform mat4 u_matrix;
uniform mat4 u_fog_matrix;

out vec2 v_texture_pos;
out float v_fog_depth;

void main() {
    float ele = get_elevation(a_pos3d.xy);
    v_texture_pos = a_pos3d.xy / 8192.0;
    gl_Position = u_matrix * vec4(a_pos3d.xy, ele, 1.0);
    vec4 pos = u_fog_matrix * vec4(a_pos3d.xy, ele, 1.0);
    v_fog_depth = pos.z / pos.w * 0.5 + 0.5;
}
`

// u_fog_blend.x is the fog start depth, u_fog_blend.y the pitch opacity.
const terrainFragment = `
uniform sampler2D u_texture;
uniform vec4 u_fog_color;
uniform vec2 u_fog_blend;

in vec2 v_texture_pos;
in float v_fog_depth;

out vec4 fragColor;

void main() {
    vec4 surface_color = texture(u_texture, v_texture_pos);
    if (v_fog_depth > u_fog_blend.x) {
        float a = (v_fog_depth - u_fog_blend.x) / (1.0 - u_fog_blend.x);
        fragColor = mix(surface_color, u_fog_color, pow(a, 2.0) * u_fog_blend.y);
    } else {
        fragColor = surface_color;
    }
}
`

// ─────────────────────────────────── Depth pass ───────────────────────────────────

const depthVertex = `
in vec3 a_pos3d;

uniform mat4 u_matrix;

out float v_depth;

void main() {
    float ele = get_elevation(a_pos3d.xy);
    gl_Position = u_matrix * vec4(a_pos3d.xy, ele, 1.0);
    v_depth = gl_Position.z / gl_Position.w;
}
`

const depthFragment = `
in float v_depth;

out vec4 fragColor;

const highp vec4 bitSh = vec4(256. * 256. * 256., 256. * 256., 256., 1.);
const highp vec4 bitMsk = vec4(0., vec3(1. / 256.0));

highp vec4 pack(highp float value) {
    highp vec4 comp = fract(value * bitSh);
    comp -= comp.xxyz * bitMsk;
    return comp;
}

void main() {
    fragColor = pack(gl_FragCoord.z);
}
`

// ─────────────────────────────────── Coords pass ───────────────────────────────────

const coordsVertex = `
in vec3 a_pos3d;

uniform mat4 u_matrix;

out vec2 v_texture_pos;

void main() {
    float ele = get_elevation(a_pos3d.xy);
    v_texture_pos = a_pos3d.xy / 8192.0;
    gl_Position = u_matrix * vec4(a_pos3d.xy, ele, 1.0);
}
`

// u_texture holds the tile's local coordinates; the alpha channel carries the tile id.
const coordsFragment = `
precision mediump float;

uniform sampler2D u_texture;
uniform float u_terrain_coords_id;

in vec2 v_texture_pos;

out vec4 fragColor;

void main() {
    vec4 rgba = texture(u_texture, v_texture_pos);
    fragColor = vec4(rgba.r, rgba.g, rgba.b, u_terrain_coords_id);
}
`

// ────────────────────────────────── Public API ──────────────────────────────────

// Source is the complete vertex/fragment pair of one program.
type Source struct {
	Variant  string
	Vertex   string
	Fragment string
}

var bodies = map[string][2]string{
	terrain.VariantColor:  {terrainVertex, terrainFragment},
	terrain.VariantDepth:  {depthVertex, depthFragment},
	terrain.VariantCoords: {coordsVertex, coordsFragment},
}

// Programs lists the variants that are linked as programs. The prelude is
// part of each of them.
var Programs = []string{terrain.VariantColor, terrain.VariantDepth, terrain.VariantCoords}

// Get returns the full sources of a program variant, with the terrain
// prelude prepended to the vertex stage.
func Get(variant string) (Source, error) {
	b, ok := bodies[variant]
	if !ok {
		return Source{}, fmt.Errorf("no shader sources for variant %q", variant)
	}
	return Source{
		Variant:  variant,
		Vertex:   header + preludeVertex + b[0],
		Fragment: header + b[1],
	}, nil
}
