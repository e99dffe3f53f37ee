package graphics

import "github.com/richinsley/goterrain/uniform"

// Context defines the interface for an OpenGL window/context.
type Context interface {
	MakeCurrent()
	DetachCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
}

// Device issues the GPU calls the terrain programs need. It must only be
// used on the thread the owning Context is current on.
type Device interface {
	uniform.Context

	// CreateProgram compiles and links a vertex/fragment pair.
	CreateProgram(vertexSource, fragmentSource string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// UniformLocation returns -1 when the program has no active uniform with
	// that name.
	UniformLocation(program uint32, name string) uniform.Location

	// BindTexture binds a 2D texture to the given texture unit.
	BindTexture(unit int32, texture uint32)
}
