package glcontext

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goterrain/tiles"
)

// Mesh is a regular grid covering one tile, in extent coordinates. The
// vertex position is the only attribute of the terrain programs and sits at
// attribute 0.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// GridVertices returns the vertices (x, y, 0) and triangle indices of a
// size x size cell grid over the tile extent.
func GridVertices(size int) ([]float32, []uint32) {
	step := float32(tiles.Extent) / float32(size)
	vertices := make([]float32, 0, (size+1)*(size+1)*3)
	for y := 0; y <= size; y++ {
		for x := 0; x <= size; x++ {
			vertices = append(vertices, float32(x)*step, float32(y)*step, 0)
		}
	}

	row := uint32(size + 1)
	indices := make([]uint32, 0, size*size*6)
	for y := uint32(0); y < uint32(size); y++ {
		for x := uint32(0); x < uint32(size); x++ {
			i := y*row + x
			indices = append(indices, i, i+1, i+row, i+1, i+row+1, i+row)
		}
	}
	return vertices, indices
}

// NewMesh uploads a grid of size x size cells.
func (d *Device) NewMesh(size int) *Mesh {
	vertices, indices := GridVertices(size)
	m := &Mesh{count: int32(len(indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

// Draw issues the draw call for the mesh with the current program.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (m *Mesh) Delete() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}
