package glcontext

import (
	"testing"

	"github.com/richinsley/goterrain/tiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridVertices(t *testing.T) {
	vertices, indices := GridVertices(2)
	require.Len(t, vertices, 9*3)
	require.Len(t, indices, 2*2*6)

	assert.Equal(t, []float32{0, 0, 0}, vertices[:3])
	assert.Equal(t, []float32{tiles.Extent, tiles.Extent, 0}, vertices[len(vertices)-3:])

	for _, i := range indices {
		assert.Less(t, i, uint32(9))
	}
	assert.Equal(t, []uint32{0, 1, 3, 1, 4, 3}, indices[:6])
}
