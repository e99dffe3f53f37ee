// Package gltest provides a recording graphics.Device for tests that run
// without a GPU.
package gltest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goterrain/uniform"
)

// Call is one recorded device call.
type Call struct {
	Op       string
	Location uniform.Location
	Args     []float32
	Matrix   mgl32.Mat4
}

// Program is a program created on the fake device.
type Program struct {
	VertexSource   string
	FragmentSource string
	Locations      map[string]uniform.Location
	Deleted        bool
}

// Device records every call. Uniform locations are handed out on first
// lookup unless Inactive lists the name.
type Device struct {
	Calls    []Call
	Programs map[uint32]*Program
	Current  uint32
	Textures map[int32]uint32

	// Inactive names resolve to -1, as if the linker removed them.
	Inactive map[string]bool
	// LinkError, when set, is returned by CreateProgram.
	LinkError error

	nextProgram  uint32
	nextLocation uniform.Location
}

func NewDevice() *Device {
	return &Device{
		Programs: make(map[uint32]*Program),
		Textures: make(map[int32]uint32),
		Inactive: make(map[string]bool),
	}
}

func (d *Device) record(c Call) { d.Calls = append(d.Calls, c) }

// Reset clears the recorded calls.
func (d *Device) Reset() { d.Calls = nil }

// UniformCalls returns the recorded uniform uploads only.
func (d *Device) UniformCalls() []Call {
	var out []Call
	for _, c := range d.Calls {
		switch c.Op {
		case "Uniform1i", "Uniform1f", "Uniform2f", "Uniform4f", "UniformMatrix4fv":
			out = append(out, c)
		}
	}
	return out
}

func (d *Device) Uniform1i(loc uniform.Location, v int32) {
	d.record(Call{Op: "Uniform1i", Location: loc, Args: []float32{float32(v)}})
}

func (d *Device) Uniform1f(loc uniform.Location, v float32) {
	d.record(Call{Op: "Uniform1f", Location: loc, Args: []float32{v}})
}

func (d *Device) Uniform2f(loc uniform.Location, v0, v1 float32) {
	d.record(Call{Op: "Uniform2f", Location: loc, Args: []float32{v0, v1}})
}

func (d *Device) Uniform4f(loc uniform.Location, v0, v1, v2, v3 float32) {
	d.record(Call{Op: "Uniform4f", Location: loc, Args: []float32{v0, v1, v2, v3}})
}

func (d *Device) UniformMatrix4fv(loc uniform.Location, m *mgl32.Mat4) {
	d.record(Call{Op: "UniformMatrix4fv", Location: loc, Matrix: *m})
}

func (d *Device) CreateProgram(vertexSource, fragmentSource string) (uint32, error) {
	if d.LinkError != nil {
		return 0, d.LinkError
	}
	d.nextProgram++
	d.Programs[d.nextProgram] = &Program{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Locations:      make(map[string]uniform.Location),
	}
	d.record(Call{Op: "CreateProgram"})
	return d.nextProgram, nil
}

func (d *Device) DeleteProgram(program uint32) {
	if p, ok := d.Programs[program]; ok {
		p.Deleted = true
	}
	d.record(Call{Op: "DeleteProgram"})
}

func (d *Device) UseProgram(program uint32) {
	d.Current = program
	d.record(Call{Op: "UseProgram"})
}

func (d *Device) UniformLocation(program uint32, name string) uniform.Location {
	p, ok := d.Programs[program]
	if !ok {
		panic(fmt.Sprintf("gltest: unknown program %d", program))
	}
	if d.Inactive[name] {
		return uniform.Inactive
	}
	if loc, ok := p.Locations[name]; ok {
		return loc
	}
	loc := d.nextLocation
	d.nextLocation++
	p.Locations[name] = loc
	return loc
}

func (d *Device) BindTexture(unit int32, texture uint32) {
	d.Textures[unit] = texture
	d.record(Call{Op: "BindTexture", Args: []float32{float32(unit), float32(texture)}})
}
