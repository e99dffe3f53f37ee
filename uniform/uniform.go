package uniform

import "github.com/go-gl/mathgl/mgl32"

// Location identifies a uniform within a linked program. -1 marks a uniform
// the program declares but the linker eliminated; writes to it are dropped.
type Location int32

const Inactive Location = -1

// Active reports whether writes to l reach the GPU.
func (l Location) Active() bool { return l >= 0 }

// Context is the GPU capability the bindings upload through. Implementations
// must be called on the thread that owns the graphics context, with the
// owning program in use.
type Context interface {
	Uniform1i(loc Location, v int32)
	Uniform1f(loc Location, v float32)
	Uniform2f(loc Location, v0, v1 float32)
	Uniform4f(loc Location, v0, v1, v2, v3 float32)
	UniformMatrix4fv(loc Location, m *mgl32.Mat4)
}

// Descriptor pairs a uniform name with its type and location.
type Descriptor struct {
	Name     string
	Type     Type
	Location Location
}

// Binding is one typed uniform handle. The set of implementations is closed:
// Uniform1i, Uniform1f, Uniform2f, Uniform4f, UniformMatrix4f and UniformColor.
type Binding interface {
	Descriptor() Descriptor
	// Reset forgets the last uploaded value so the next Set always uploads.
	Reset()
	binding()
}

type base struct {
	ctx  Context
	desc Descriptor
	set  bool
}

func (b *base) Descriptor() Descriptor { return b.desc }
func (b *base) Reset()                 { b.set = false }
func (b *base) binding()               {}

// Uniform1i holds an int uniform, typically a sampler's texture unit.
type Uniform1i struct {
	base
	current int32
}

func NewUniform1i(ctx Context, name string, loc Location) *Uniform1i {
	return &Uniform1i{base: base{ctx: ctx, desc: Descriptor{name, Int, loc}}}
}

func (u *Uniform1i) Set(v int32) {
	if u.set && u.current == v {
		return
	}
	u.current, u.set = v, true
	u.ctx.Uniform1i(u.desc.Location, v)
}

// Uniform1f holds a float uniform.
type Uniform1f struct {
	base
	current float32
}

func NewUniform1f(ctx Context, name string, loc Location) *Uniform1f {
	return &Uniform1f{base: base{ctx: ctx, desc: Descriptor{name, Float, loc}}}
}

func (u *Uniform1f) Set(v float32) {
	if u.set && u.current == v {
		return
	}
	u.current, u.set = v, true
	u.ctx.Uniform1f(u.desc.Location, v)
}

// Uniform2f holds a vec2 uniform.
type Uniform2f struct {
	base
	current mgl32.Vec2
}

func NewUniform2f(ctx Context, name string, loc Location) *Uniform2f {
	return &Uniform2f{base: base{ctx: ctx, desc: Descriptor{name, Vec2, loc}}}
}

func (u *Uniform2f) Set(v mgl32.Vec2) {
	if u.set && u.current == v {
		return
	}
	u.current, u.set = v, true
	u.ctx.Uniform2f(u.desc.Location, v[0], v[1])
}

// Uniform4f holds a vec4 uniform.
type Uniform4f struct {
	base
	current mgl32.Vec4
}

func NewUniform4f(ctx Context, name string, loc Location) *Uniform4f {
	return &Uniform4f{base: base{ctx: ctx, desc: Descriptor{name, Vec4, loc}}}
}

func (u *Uniform4f) Set(v mgl32.Vec4) {
	if u.set && u.current == v {
		return
	}
	u.current, u.set = v, true
	u.ctx.Uniform4f(u.desc.Location, v[0], v[1], v[2], v[3])
}

// UniformMatrix4f holds a column-major mat4 uniform.
type UniformMatrix4f struct {
	base
	current mgl32.Mat4
}

func NewUniformMatrix4f(ctx Context, name string, loc Location) *UniformMatrix4f {
	return &UniformMatrix4f{base: base{ctx: ctx, desc: Descriptor{name, Mat4, loc}}}
}

func (u *UniformMatrix4f) Set(m mgl32.Mat4) {
	if u.set && u.current == m {
		return
	}
	u.current, u.set = m, true
	u.ctx.UniformMatrix4fv(u.desc.Location, &u.current)
}

// UniformColor holds a premultiplied RGBA color, uploaded as a vec4.
type UniformColor struct {
	base
	current mgl32.Vec4
}

func NewUniformColor(ctx Context, name string, loc Location) *UniformColor {
	return &UniformColor{base: base{ctx: ctx, desc: Descriptor{name, Color, loc}}}
}

func (u *UniformColor) Set(c mgl32.Vec4) {
	if u.set && u.current == c {
		return
	}
	u.current, u.set = c, true
	u.ctx.Uniform4f(u.desc.Location, c[0], c[1], c[2], c[3])
}
