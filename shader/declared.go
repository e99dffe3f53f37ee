package shader

import "regexp"

// Uniform is a uniform declaration found in shader source.
type Uniform struct {
	Name string
	// Type is the GLSL type keyword, e.g. "mat4" or "sampler2D".
	Type string
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)

// DeclaredUniforms lists the uniforms src declares, in source order.
func DeclaredUniforms(src string) []Uniform {
	var out []Uniform
	for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
		out = append(out, Uniform{Name: m[2], Type: m[1]})
	}
	return out
}

// Uniforms lists the uniforms declared by either stage. A name declared in
// both stages is listed once, with its vertex declaration.
func (s Source) Uniforms() []Uniform {
	seen := make(map[string]bool)
	var out []Uniform
	for _, u := range append(DeclaredUniforms(s.Vertex), DeclaredUniforms(s.Fragment)...) {
		if seen[u.Name] {
			continue
		}
		seen[u.Name] = true
		out = append(out, u)
	}
	return out
}
