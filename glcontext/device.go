// Package glcontext implements graphics.Device on desktop OpenGL 4.1.
package glcontext

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goterrain/graphics"
	"github.com/richinsley/goterrain/uniform"
)

var glInitOnce sync.Once

var _ graphics.Device = (*Device)(nil)

// Device issues calls on the current OpenGL context.
type Device struct{}

// Init loads the GL function pointers. The context the device is used with
// must be current on the calling thread.
func Init() (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &Device{}, nil
}

// Version returns the GL_VERSION string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) Uniform1i(loc uniform.Location, v int32) {
	gl.Uniform1i(int32(loc), v)
}

func (d *Device) Uniform1f(loc uniform.Location, v float32) {
	gl.Uniform1f(int32(loc), v)
}

func (d *Device) Uniform2f(loc uniform.Location, v0, v1 float32) {
	gl.Uniform2f(int32(loc), v0, v1)
}

func (d *Device) Uniform4f(loc uniform.Location, v0, v1, v2, v3 float32) {
	gl.Uniform4f(int32(loc), v0, v1, v2, v3)
}

func (d *Device) UniformMatrix4fv(loc uniform.Location, m *mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (d *Device) CreateProgram(vertexSource, fragmentSource string) (uint32, error) {
	return newProgram(vertexSource, fragmentSource)
}

func (d *Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) UniformLocation(program uint32, name string) uniform.Location {
	return uniform.Location(gl.GetUniformLocation(program, gl.Str(name+"\x00")))
}

func (d *Device) BindTexture(unit int32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

// NewTexture uploads an RGBA8 image. DEM tiles must be sampled unfiltered,
// so nearest filtering is used.
func (d *Device) NewTexture(width, height int, pixels []uint8) (uint32, error) {
	if len(pixels) != width*height*4 {
		return 0, fmt.Errorf("texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pixels))
	}
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture, nil
}

func (d *Device) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

// Clear sets the viewport and clears color and depth.
func (d *Device) Clear(width, height int, c [4]float32) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixel reads one RGBA8 pixel of the bound read framebuffer.
func (d *Device) ReadPixel(x, y int) [4]uint8 {
	var px [4]uint8
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&px[0]))
	return px
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
