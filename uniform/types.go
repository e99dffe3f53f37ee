package uniform

// Type is the semantic type of a uniform: the shape of the value that is
// uploaded for it. The set is closed; every binding in this package maps to
// exactly one Type.
type Type int32

const (
	UndefinedType Type = iota

	// Int is a signed 32 bit scalar. Sampler uniforms use it for the texture unit.
	Int
	Float
	Vec2
	Vec4
	Mat4

	// Color is a premultiplied RGBA color, uploaded as a vec4.
	Color
)

// GL type enums as reported by shader reflection.
const (
	glInt         = 0x1404
	glFloat       = 0x1406
	glFloatVec2   = 0x8B50
	glFloatVec4   = 0x8B52
	glFloatMat4   = 0x8B5C
	glSampler2D   = 0x8B5E
	glSamplerCube = 0x8B60
)

var typeNames = map[Type]string{
	UndefinedType: "undefined",
	Int:           "int",
	Float:         "float",
	Vec2:          "vec2",
	Vec4:          "vec4",
	Mat4:          "mat4",
	Color:         "color",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// AcceptsGLSL reports whether a uniform declared in GLSL with the given type
// keyword can be bound with t.
func (t Type) AcceptsGLSL(glsl string) bool {
	switch t {
	case Int:
		return glsl == "int" || glsl == "sampler2D" || glsl == "samplerCube"
	case Float:
		return glsl == "float"
	case Vec2:
		return glsl == "vec2"
	case Vec4, Color:
		return glsl == "vec4"
	case Mat4:
		return glsl == "mat4"
	}
	return false
}

// AcceptsGL reports whether a uniform reflected with the given GL type enum
// can be bound with t.
func (t Type) AcceptsGL(glType uint) bool {
	switch t {
	case Int:
		return glType == glInt || glType == glSampler2D || glType == glSamplerCube
	case Float:
		return glType == glFloat
	case Vec2:
		return glType == glFloatVec2
	case Vec4, Color:
		return glType == glFloatVec4
	case Mat4:
		return glType == glFloatMat4
	}
	return false
}
